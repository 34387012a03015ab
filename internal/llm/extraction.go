package llm

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput       = errors.New("empty CV text")
	ErrModelUnavailable = errors.New("model unavailable")
	ErrEmptyResponse    = errors.New("empty model response")
)

// MalformedResponseError reports a model response that could not be parsed as
// the expected JSON object. Raw retains the offending payload for diagnostics.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Extraction mirrors the JSON object the model is instructed to produce.
// Fields the model omits stay at their zero value and are treated as unset
// downstream.
type Extraction struct {
	Nome        string `json:"nome"`
	Cognome     string `json:"cognome"`
	Citta       string `json:"citta"`
	DataNascita string `json:"data_nascita"` // DD/MM/YYYY as instructed
	Email       string `json:"email"`
	Cellulare   string `json:"cellulare"`

	AnniEsperienza *int   `json:"anni_esperienza"`
	Competenze     string `json:"competenze"` // single underscore-joined role token

	Tools                   []string `json:"tools"`
	Database                []string `json:"database"`
	Piattaforme             []string `json:"piattaforme"`
	SistemiOperativi        []string `json:"sistemi_operativi"`
	LinguaggiProgrammazione []string `json:"linguaggi_programmazione"`
}
