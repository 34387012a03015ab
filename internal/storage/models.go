package storage

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date persisted as a Postgres DATE column. It marshals as
// YYYY-MM-DD and accepts the Italian DD/MM/YYYY and DD-MM-YYYY forms on input,
// mirroring what the update endpoint has always tolerated.
type Date struct {
	time.Time
}

var dateLayouts = []string{"02/01/2006", "02-01-2006", "2006-01-02"}

func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t}, nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q: use DD/MM/YYYY", s)
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Process status values for a profile. A row moves processing -> completed on
// successful ingestion, or processing -> error; never backward.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// CandidateProfile is a row of cv_profiles.
type CandidateProfile struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Dati anagrafici
	Nome        *string `json:"nome"`
	Cognome     *string `json:"cognome"`
	Citta       *string `json:"citta"`
	DataNascita *Date   `json:"data_nascita"`

	// Contatti ed esperienza
	Cellulare      *string `json:"cellulare"`
	AnniEsperienza *int    `json:"anni_esperienza"`

	// Competenze
	Competenze              *string  `json:"competenze"`
	Tools                   []string `json:"tools"`
	Database                []string `json:"database"`
	Piattaforme             []string `json:"piattaforme"`
	SistemiOperativi        []string `json:"sistemi_operativi"`
	LinguaggiProgrammazione []string `json:"linguaggi_programmazione"`

	// Posizione contrattuale
	ContrattoAttuale        *string `json:"contratto_attuale"`
	StipendioAttuale        *int    `json:"stipendio_attuale"`
	ScadenzaContratto       *Date   `json:"scadenza_contratto"`
	Preavviso               *string `json:"preavviso"`
	TipoContrattoDesiderato *string `json:"tipo_contratto_desiderato"`
	StipendioDesiderato     *int    `json:"stipendio_desiderato"`

	Note *string `json:"note"`

	// Provenienza
	FileName      *string `json:"file_name"`
	ProcessStatus string  `json:"process_status"`
}

// QueryParams describe one filtered/sorted/paginated listing of cv_profiles.
type QueryParams struct {
	// Global search across nome, cognome and competenze
	Search string

	// Substring filters (case-insensitive)
	Nome    string
	Cognome string
	Citta   string

	// Exact match on the processing state
	ProcessStatus string

	// Numeric ranges
	AnniEsperienzaMin *int
	AnniEsperienzaMax *int
	StipendioMin      *int
	StipendioMax      *int

	// Array containment on the category columns
	Tools            []string
	Database         []string
	Piattaforme      []string
	SistemiOperativi []string
	Linguaggi        []string

	// created_at range
	DataDal *time.Time
	DataAl  *time.Time

	SortBy   string
	SortDesc bool

	Page     int
	PageSize int
}
