package pipeline

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"cv-parser/internal/llm"
	"cv-parser/internal/storage"
)

// BuildInsertPayload maps an extraction onto cv_profiles columns. Unset fields
// are dropped rather than sent as nulls, category lists always persist as
// arrays (empty when the model omitted them), and an unparseable birth date
// degrades to an absent date. Dropped fields are logged, not silent.
func BuildInsertPayload(ex *llm.Extraction, filename string, logger *zap.Logger) map[string]any {
	if logger == nil {
		logger = zap.NewNop()
	}

	payload := map[string]any{
		"file_name":      filename,
		"process_status": storage.StatusProcessing,
	}

	setString := func(column, value string) {
		if v := strings.TrimSpace(value); v != "" {
			payload[column] = v
		}
	}
	setString("nome", ex.Nome)
	setString("cognome", ex.Cognome)
	setString("citta", ex.Citta)
	setString("cellulare", ex.Cellulare)
	setString("competenze", ex.Competenze)

	var dropped []string

	if raw := strings.TrimSpace(ex.DataNascita); raw != "" {
		if converted, ok := convertDate(raw); ok {
			payload["data_nascita"] = converted
		} else {
			dropped = append(dropped, "data_nascita")
		}
	}

	if ex.AnniEsperienza != nil {
		if *ex.AnniEsperienza >= 0 {
			payload["anni_esperienza"] = *ex.AnniEsperienza
		} else {
			dropped = append(dropped, "anni_esperienza")
		}
	}

	payload["tools"] = orEmpty(ex.Tools)
	payload["database"] = orEmpty(ex.Database)
	payload["piattaforme"] = orEmpty(ex.Piattaforme)
	payload["sistemi_operativi"] = orEmpty(ex.SistemiOperativi)
	payload["linguaggi_programmazione"] = orEmpty(ex.LinguaggiProgrammazione)

	if len(dropped) > 0 {
		logger.Info("normalization dropped invalid fields",
			zap.Strings("fields", dropped),
		)
	}
	return payload
}

// convertDate turns the model's DD/MM/YYYY into the store's YYYY-MM-DD,
// requiring a real calendar date.
func convertDate(s string) (string, bool) {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
