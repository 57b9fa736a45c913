package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/facturia/facturia-api/internal/application/billing"
	"github.com/facturia/facturia-api/pkg/config"
)

var _ billing.ArtifactStore = (*SupabaseStore)(nil)

// SupabaseStore guarda artefactos en un bucket de Supabase Storage vía su API
// REST. La escritura siempre es upsert: la ruta de un artefacto es fija y los
// reenvíos sobreescriben, nunca duplican.
type SupabaseStore struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewSupabaseStore construye el adaptador.
func NewSupabaseStore(cfg config.StorageConfig) *SupabaseStore {
	return &SupabaseStore{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		serviceKey: cfg.ServiceKey,
		bucket:     cfg.Bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Put sube el objeto con upsert.
func (s *SupabaseStore) Put(ctx context.Context, path string, data []byte) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("storage: crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage: subir objeto: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("storage: Supabase respondió %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// GetURL devuelve la URL pública del objeto si existe. La existencia se
// verifica con un HEAD para no reportar URLs de artefactos nunca subidos.
func (s *SupabaseStore) GetURL(ctx context.Context, path string) (string, bool) {
	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, publicURL, nil)
	if err != nil {
		return "", false
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	return publicURL, true
}
