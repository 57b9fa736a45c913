package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/facturia/facturia-api/internal/application/billing"
	"github.com/facturia/facturia-api/pkg/config"
	"github.com/facturia/facturia-api/pkg/logger"
)

var _ billing.EmailGateway = (*ResendService)(nil)

// ResendService envía documentos por correo usando la API de Resend.
type ResendService struct {
	client *resend.Client
	from   string
	log    *logger.Logger
}

// NewResendService construye el servicio.
func NewResendService(cfg config.EmailConfig, log *logger.Logger) *ResendService {
	return &ResendService{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.From,
		log:    log,
	}
}

// Send envía el documento como adjunto, con enlace de descarga si el artefacto
// tiene URL pública y enlace a condiciones generales si el emisor las definió.
func (s *ResendService) Send(ctx context.Context, msg billing.EmailMessage) error {
	subject := fmt.Sprintf("Documento %s de %s", msg.DocumentNumber, msg.IssuerName)

	downloadBlock := ""
	if msg.ArtifactURL != "" {
		downloadBlock = fmt.Sprintf(`<p><a class="button" href="%s">Descargar documento</a></p>`, msg.ArtifactURL)
	}
	termsBlock := ""
	if msg.TermsURL != "" {
		termsBlock = fmt.Sprintf(`<p class="terms">Aplican las <a href="%s">condiciones generales</a> de %s.</p>`, msg.TermsURL, msg.IssuerName)
	}

	htmlContent := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; padding: 12px 24px; background-color: #007bff; color: white; text-decoration: none; border-radius: 5px; }
        .terms { font-size: 13px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h2>Hola %s,</h2>
        <p>%s te envía el documento <strong>%s</strong>. Lo encontrarás adjunto a este correo.</p>
        %s
        %s
    </div>
</body>
</html>`,
		msg.RecipientName, msg.IssuerName, msg.DocumentNumber, downloadBlock, termsBlock)

	request := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.RecipientEmail},
		Subject: subject,
		Html:    htmlContent,
	}
	if msg.CCEmail != "" {
		request.Cc = []string{msg.CCEmail}
	}
	if len(msg.Attachment) > 0 {
		request.Attachments = []*resend.Attachment{
			{Filename: msg.AttachmentName, Content: msg.Attachment},
		}
	}

	result, err := s.client.Emails.SendWithContext(ctx, request)
	if err != nil {
		return fmt.Errorf("enviar email via Resend: %w", err)
	}
	s.log.Info().
		Str("email_id", result.Id).
		Str("to", msg.RecipientEmail).
		Str("document", msg.DocumentNumber).
		Msg("email enviado")
	return nil
}
