package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturia/facturia-api/internal/application/billing"
	"github.com/facturia/facturia-api/internal/domain"
	"github.com/facturia/facturia-api/internal/domain/entity"
	"github.com/facturia/facturia-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los puertos del orquestador
// ──────────────────────────────────────────────────────────────────────────────

type fakeGateway struct {
	result *billing.SubmitResult
	err    error
	calls  int
}

func (f *fakeGateway) Submit(ctx context.Context, payload *billing.DocumentPayload) (*billing.SubmitResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &billing.SubmitResult{OK: true}, nil
}

type fakeStore struct {
	objects map[string][]byte
	putErr  error
	baseURL string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, baseURL: "https://store.example.com/"}
}

func (f *fakeStore) Put(ctx context.Context, path string, data []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[path] = data
	return nil
}

func (f *fakeStore) GetURL(ctx context.Context, path string) (string, bool) {
	if _, ok := f.objects[path]; !ok {
		return "", false
	}
	return f.baseURL + path, true
}

type fakeEmail struct {
	sent []billing.EmailMessage
	err  error
}

func (f *fakeEmail) Send(ctx context.Context, msg billing.EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type submitFixture struct {
	orchestrator *billing.SubmitOrchestrator
	gateway      *fakeGateway
	store        *fakeStore
	email        *fakeEmail
}

func newSubmitFixture() *submitFixture {
	gateway := &fakeGateway{}
	store := newFakeStore()
	email := &fakeEmail{}
	resolver := billing.NewRoutingResolver(&fakeDirectory{}, "")
	formatter := billing.NewFormatter(resolver)
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return &submitFixture{
		orchestrator: billing.NewSubmitOrchestrator(formatter, gateway, store, email, log),
		gateway:      gateway,
		store:        store,
		email:        email,
	}
}

func submitInput() billing.SubmitInput {
	party := businessParty()
	party.Email = "billing@acme.example"
	party.NetworkRegistrationID = "reg-acme"
	issuer := testIssuer()
	issuer.NetworkRegistrationID = "reg-facturia"
	issuer.Email = "cc@facturia.example"
	return billing.SubmitInput{
		Document: invoiceDoc(),
		Items:    invoiceItems(),
		Party:    party,
		Issuer:   issuer,
		PDF:      []byte("%PDF-1.7 fake"),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Envío — vía de red + artefacto + email, con fallback y éxito parcial.
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_RedYEmailExitosos(t *testing.T) {
	f := newSubmitFixture()

	outcome, err := f.orchestrator.Submit(context.Background(), submitInput())
	require.NoError(t, err)

	assert.True(t, outcome.NetworkSubmitted)
	assert.True(t, outcome.EmailSent)
	assert.Empty(t, outcome.NetworkError)
	assert.Equal(t, 1, f.gateway.calls)

	// El artefacto vive en su ruta determinística
	assert.Contains(t, f.store.objects, "doc-1/invoice.pdf")
	assert.Equal(t, "https://store.example.com/doc-1/invoice.pdf", outcome.ArtifactURL)

	require.Len(t, f.email.sent, 1)
	assert.Equal(t, "billing@acme.example", f.email.sent[0].RecipientEmail)
	assert.Equal(t, "cc@facturia.example", f.email.sent[0].CCEmail)
	assert.NotEmpty(t, f.email.sent[0].Attachment, "el PDF va adjunto")
}

// Fallo de red con email entregado: éxito parcial, no error. El artefacto se
// persiste de todos modos.
func TestSubmit_RedCaidaCaeAEmail(t *testing.T) {
	f := newSubmitFixture()
	f.gateway.err = errors.New("access point timeout")

	outcome, err := f.orchestrator.Submit(context.Background(), submitInput())
	require.NoError(t, err, "el fallo de red con email entregado no es un error")

	assert.False(t, outcome.NetworkSubmitted)
	assert.Contains(t, outcome.NetworkError, "access point timeout")
	assert.True(t, outcome.EmailSent)
	assert.Contains(t, f.store.objects, "doc-1/invoice.pdf",
		"el artefacto se persiste aunque la red falle")
}

// Rechazo del access point (respuesta no-OK) se trata igual que un fallo de red.
func TestSubmit_RechazoDelAccessPoint(t *testing.T) {
	f := newSubmitFixture()
	f.gateway.result = &billing.SubmitResult{OK: false, Body: "schema inválido"}

	outcome, err := f.orchestrator.Submit(context.Background(), submitInput())
	require.NoError(t, err)
	assert.False(t, outcome.NetworkSubmitted)
	assert.Contains(t, outcome.NetworkError, "schema inválido")
	assert.True(t, outcome.EmailSent)
}

// Sin registro de red de alguna de las partes, la vía de red ni se intenta.
func TestSubmit_SinRegistroDeRedVaDirectoAEmail(t *testing.T) {
	f := newSubmitFixture()
	in := submitInput()
	in.Party.NetworkRegistrationID = ""

	outcome, err := f.orchestrator.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, outcome.NetworkSubmitted)
	assert.Empty(t, outcome.NetworkError, "no intentar la red no es un error de red")
	assert.True(t, outcome.EmailSent)
	assert.Zero(t, f.gateway.calls)
}

// El fallo del almacén de artefactos es fatal: sin artefacto no hay entrega.
func TestSubmit_FalloDeStorageEsFatal(t *testing.T) {
	f := newSubmitFixture()
	f.store.putErr = errors.New("bucket no disponible")

	_, err := f.orchestrator.Submit(context.Background(), submitInput())
	require.Error(t, err)
	assert.Equal(t, domain.KindStorage, domain.KindOf(err))
	assert.Empty(t, f.email.sent, "sin artefacto no se envía email")
}

// Email fallido siendo la única vía: fallo total, con el outcome de diagnóstico.
func TestSubmit_EmailUnicaViaFallida(t *testing.T) {
	f := newSubmitFixture()
	f.email.err = errors.New("smtp 550")
	in := submitInput()
	in.Issuer.NetworkRegistrationID = "" // sin vía de red

	outcome, err := f.orchestrator.Submit(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, domain.KindEmail, domain.KindOf(err))
	require.NotNil(t, outcome)
	assert.False(t, outcome.EmailSent)
	assert.Contains(t, outcome.EmailError, "smtp 550")
}

// Email fallido tras entrega por red: éxito (el documento ya llegó), con
// EmailError en el outcome.
func TestSubmit_EmailFallidoTrasRedExitosa(t *testing.T) {
	f := newSubmitFixture()
	f.email.err = errors.New("smtp 550")

	outcome, err := f.orchestrator.Submit(context.Background(), submitInput())
	require.NoError(t, err)
	assert.True(t, outcome.NetworkSubmitted)
	assert.False(t, outcome.EmailSent)
	assert.Contains(t, outcome.EmailError, "smtp 550")
}

// ── precondiciones ────────────────────────────────────────────────────────────

func TestSubmit_SinEmailDeContraparte(t *testing.T) {
	f := newSubmitFixture()
	in := submitInput()
	in.Party.Email = ""

	_, err := f.orchestrator.Submit(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Zero(t, f.gateway.calls, "las precondiciones van antes de cualquier llamada externa")
}

func TestSubmit_SinPDF(t *testing.T) {
	f := newSubmitFixture()
	in := submitInput()
	in.PDF = nil

	_, err := f.orchestrator.Submit(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestSubmit_SinLineas(t *testing.T) {
	f := newSubmitFixture()
	in := submitInput()
	in.Items = nil

	_, err := f.orchestrator.Submit(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

// ── ArtifactPath ──────────────────────────────────────────────────────────────

func TestArtifactPath_PorTipoDeDocumento(t *testing.T) {
	invoice := &entity.BillingDocument{ID: "abc", Kind: entity.KindInvoice}
	creditNote := &entity.BillingDocument{ID: "abc", Kind: entity.KindCreditNote}

	assert.Equal(t, "abc/invoice.pdf", billing.ArtifactPath(invoice))
	assert.Equal(t, "abc/credit-note.pdf", billing.ArtifactPath(creditNote))
}
