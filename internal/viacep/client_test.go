// ABOUTME: Tests for the ViaCEP lookup client using httptest
// ABOUTME: Covers normalization, unknown CEPs, and upstream failures

package viacep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"cep": "01001-000",
			"logradouro": "Praça da Sé",
			"complemento": "lado ímpar",
			"bairro": "Sé",
			"localidade": "São Paulo",
			"uf": "SP"
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)

	addr, err := client.Lookup(context.Background(), "01001-000")
	require.NoError(t, err)

	assert.Equal(t, "/ws/01001000/json/", gotPath, "punctuation must be stripped from the path")
	assert.Equal(t, "01001000", addr.Cep)
	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, "Sé", addr.Neighborhood)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
}

func TestLookup_UnknownCep(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"erro": true}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)

	_, err := client.Lookup(context.Background(), "99999999")
	assert.ErrorIs(t, err, ErrCepNotFound)
}

func TestLookup_InvalidCep(t *testing.T) {
	client := New("http://unused", time.Second)

	for _, cep := range []string{"", "123", "123456789", "abcdefgh"} {
		_, err := client.Lookup(context.Background(), cep)
		assert.ErrorIs(t, err, ErrInvalidCep, "cep %q", cep)
	}
}

func TestLookup_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)

	_, err := client.Lookup(context.Background(), "01001000")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCepNotFound)
}
