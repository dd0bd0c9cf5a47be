package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// CEPService consulta o serviço público de CEP usado no formulário de cadastro.
type CEPService struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewCEPService(baseURL string) *CEPService {
	return &CEPService{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type CEPResult struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	NotFound     bool   `json:"erro,omitempty"`
}

var cepPattern = regexp.MustCompile(`^\d{8}$`)

func (s *CEPService) Lookup(ctx context.Context, cep string) (*CEPResult, error) {
	if !cepPattern.MatchString(cep) {
		return nil, errors.New("CEP inválido: use 8 dígitos")
	}

	endpoint := fmt.Sprintf("%s/%s/json/", s.BaseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serviço de CEP: status %d", resp.StatusCode)
	}

	var result CEPResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if result.NotFound {
		return nil, errors.New("CEP não encontrado")
	}
	return &result, nil
}
