package peppol

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ucarion/c14n"
	"github.com/facturia/facturia-api/internal/application/billing"
	"github.com/facturia/facturia-api/pkg/config"
)

var (
	_ billing.NetworkDirectory = (*Client)(nil)
	_ billing.NetworkGateway   = (*Client)(nil)
)

// Client habla con el directorio de participantes y el access point de la red
// de intercambio. Usa net/http de la stdlib; el WS puede tardar varios
// segundos en responder, de ahí el timeout generoso.
type Client struct {
	directoryURL   string
	accessPointURL string
	apiKey         string
	httpClient     *http.Client
}

// NewClient construye el cliente con la configuración de la red.
func NewClient(cfg config.PeppolConfig) *Client {
	return &Client{
		directoryURL:   strings.TrimRight(cfg.DirectoryURL, "/"),
		accessPointURL: strings.TrimRight(cfg.AccessPointURL, "/"),
		apiKey:         cfg.APIKey,
		httpClient:     &http.Client{Timeout: 60 * time.Second},
	}
}

// ── Directorio de participantes ───────────────────────────────────────────────

type directoryResponse struct {
	Identifiers []billing.RoutingIdentifier `json:"identifiers"`
}

// LookupIdentifiers consulta el directorio por registrationID. Un 404 no es
// error: el participante simplemente no está publicado.
func (c *Client) LookupIdentifiers(ctx context.Context, registrationID string) ([]billing.RoutingIdentifier, error) {
	endpoint := c.directoryURL + "/participants/" + url.PathEscape(registrationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("peppol: crear request de directorio: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("peppol: consulta de directorio fallida: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("peppol: directorio respondió %d: %s", resp.StatusCode, string(body))
	}

	var parsed directoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("peppol: parsear respuesta de directorio: %w", err)
	}
	return parsed.Identifiers, nil
}

// ── Entrega al access point ───────────────────────────────────────────────────

type submitRequest struct {
	DocumentType string                      `json:"document_type"`
	Number       string                      `json:"number"`
	Routing      []billing.RoutingIdentifier `json:"routing"`
	Document     string                      `json:"document"` // UBL en Base64
	DigestSHA256 string                      `json:"digest_sha256"`
}

// Submit serializa el payload como UBL, calcula el digest sobre el XML
// canonicalizado y lo entrega al access point. Un rechazo (4xx) no es error de
// transporte: se reporta en el resultado para que el caller decida el fallback.
func (c *Client) Submit(ctx context.Context, payload *billing.DocumentPayload) (*billing.SubmitResult, error) {
	ubl, err := BuildUBL(payload)
	if err != nil {
		return nil, err
	}
	digest, err := digestSHA256(ubl)
	if err != nil {
		return nil, fmt.Errorf("peppol: calcular digest: %w", err)
	}

	body, err := json.Marshal(submitRequest{
		DocumentType: payload.DocumentType,
		Number:       payload.Number,
		Routing:      payload.Routing,
		Document:     base64.StdEncoding.EncodeToString(ubl),
		DigestSHA256: digest,
	})
	if err != nil {
		return nil, fmt.Errorf("peppol: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accessPointURL+"/documents", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("peppol: crear request de envío: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("peppol: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("peppol: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // max 1 MB
	if err != nil {
		return nil, fmt.Errorf("peppol: leer respuesta: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &billing.SubmitResult{OK: true, Body: string(rawBody)}, nil
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &billing.SubmitResult{OK: false, Body: string(rawBody)}, nil
	}
	return nil, fmt.Errorf("peppol: access point respondió %d: %s", resp.StatusCode, string(rawBody))
}

// digestSHA256 canonicaliza el XML (C14N) y devuelve el SHA-256 en hex. El
// digest debe ser estable frente a diferencias de indentación o de orden de
// atributos, de ahí la canonicalización previa.
func digestSHA256(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
