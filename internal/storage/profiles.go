package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rotisserie/eris"
)

// ErrNotFound reports that no profile row matched the given id. Callers treat
// it as a normal "nothing to do" outcome, unlike any other store error.
var ErrNotFound = errors.New("profile not found")

// profileColumns is the canonical column order used by every SELECT and the
// whitelist for dynamic INSERT/UPDATE payloads. Unknown payload keys are never
// sent to the database.
var profileColumns = []string{
	"nome", "cognome", "citta", "data_nascita",
	"cellulare", "anni_esperienza", "competenze",
	"tools", "database", "piattaforme", "sistemi_operativi", "linguaggi_programmazione",
	"contratto_attuale", "stipendio_attuale", "scadenza_contratto",
	"preavviso", "tipo_contratto_desiderato", "stipendio_desiderato",
	"note", "file_name", "process_status",
}

const selectColumns = `id, created_at, nome, cognome, citta, data_nascita,
	cellulare, anni_esperienza, competenze,
	tools, database, piattaforme, sistemi_operativi, linguaggi_programmazione,
	contratto_attuale, stipendio_attuale, scadenza_contratto,
	preavviso, tipo_contratto_desiderato, stipendio_desiderato,
	note, file_name, process_status`

var sortableColumns = map[string]bool{
	"nome":            true,
	"cognome":         true,
	"created_at":      true,
	"anni_esperienza": true,
}

// InsertProfile inserts a new cv_profiles row from a column->value payload and
// returns the assigned id. The payload must not contain nil values; absent
// columns take their table defaults.
func (db *DB) InsertProfile(ctx context.Context, payload map[string]any) (string, error) {
	id := uuid.NewString()

	cols := []string{"id"}
	args := []any{id}
	for _, col := range profileColumns {
		v, ok := payload[col]
		if !ok {
			continue
		}
		cols = append(cols, col)
		args = append(args, toSQLValue(v))
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`INSERT INTO cv_profiles (%s) VALUES (%s)`,
		strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	if _, err := db.connection.ExecContext(ctx, query, args...); err != nil {
		return "", eris.Wrap(err, "insert profile")
	}
	return id, nil
}

// UpdateProfile applies a partial payload to an existing row and returns the
// updated record. Columns absent from the payload are left untouched.
func (db *DB) UpdateProfile(ctx context.Context, id string, payload map[string]any) (*CandidateProfile, error) {
	var sets []string
	var args []any
	i := 1
	for _, col := range profileColumns {
		v, ok := payload[col]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, toSQLValue(v))
		i++
	}

	if len(sets) == 0 {
		return db.GetProfile(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE cv_profiles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), i, selectColumns)

	row := db.connection.QueryRowContext(ctx, query, args...)
	profile, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "update profile")
	}
	return profile, nil
}

// GetProfile fetches a single row by id.
func (db *DB) GetProfile(ctx context.Context, id string) (*CandidateProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM cv_profiles WHERE id = $1`, selectColumns)
	row := db.connection.QueryRowContext(ctx, query, id)
	profile, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "get profile")
	}
	return profile, nil
}

// DeleteProfile removes a row by id; it reports whether a row was removed.
func (db *DB) DeleteProfile(ctx context.Context, id string) (bool, error) {
	res, err := db.connection.ExecContext(ctx, `DELETE FROM cv_profiles WHERE id = $1`, id)
	if err != nil {
		return false, eris.Wrap(err, "delete profile")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "delete profile: rows affected")
	}
	return n > 0, nil
}

// QueryProfiles returns the page of rows matching params together with the
// filtered match count and the unfiltered table total.
func (db *DB) QueryProfiles(ctx context.Context, params QueryParams) ([]CandidateProfile, int, int, error) {
	where, args := buildProfileFilters(params)

	var total int
	if err := db.connection.QueryRowContext(ctx, `SELECT COUNT(*) FROM cv_profiles`).Scan(&total); err != nil {
		return nil, 0, 0, eris.Wrap(err, "count profiles")
	}

	var filtered int
	countQuery := "SELECT COUNT(*) FROM cv_profiles" + where
	if err := db.connection.QueryRowContext(ctx, countQuery, args...).Scan(&filtered); err != nil {
		return nil, 0, 0, eris.Wrap(err, "count filtered profiles")
	}

	query, pageArgs := buildProfileQuery(params, where, args)
	rows, err := db.connection.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, 0, eris.Wrap(err, "query profiles")
	}
	defer rows.Close()

	items := []CandidateProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, 0, eris.Wrap(err, "scan profile")
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, eris.Wrap(err, "iterate profiles")
	}
	return items, total, filtered, nil
}

// buildProfileFilters renders the WHERE clause for params with positional args.
func buildProfileFilters(params QueryParams) (string, []any) {
	var where []string
	var args []any
	i := 1

	next := func(cond string, v any) {
		where = append(where, fmt.Sprintf(cond, i))
		args = append(args, v)
		i++
	}

	if params.Search != "" {
		pattern := "%" + escapeLike(params.Search) + "%"
		where = append(where, fmt.Sprintf("(nome ILIKE $%d OR cognome ILIKE $%d OR competenze ILIKE $%d)", i, i+1, i+2))
		args = append(args, pattern, pattern, pattern)
		i += 3
	}
	if params.Nome != "" {
		next("nome ILIKE $%d", "%"+escapeLike(params.Nome)+"%")
	}
	if params.Cognome != "" {
		next("cognome ILIKE $%d", "%"+escapeLike(params.Cognome)+"%")
	}
	if params.Citta != "" {
		next("citta ILIKE $%d", "%"+escapeLike(params.Citta)+"%")
	}
	if params.ProcessStatus != "" {
		next("process_status = $%d", params.ProcessStatus)
	}

	if params.AnniEsperienzaMin != nil {
		next("anni_esperienza >= $%d", *params.AnniEsperienzaMin)
	}
	if params.AnniEsperienzaMax != nil {
		next("anni_esperienza <= $%d", *params.AnniEsperienzaMax)
	}
	if params.StipendioMin != nil {
		next("stipendio_attuale >= $%d", *params.StipendioMin)
	}
	if params.StipendioMax != nil {
		next("stipendio_attuale <= $%d", *params.StipendioMax)
	}

	arrayFilters := []struct {
		column string
		values []string
	}{
		{"tools", params.Tools},
		{"database", params.Database},
		{"piattaforme", params.Piattaforme},
		{"sistemi_operativi", params.SistemiOperativi},
		{"linguaggi_programmazione", params.Linguaggi},
	}
	for _, f := range arrayFilters {
		if len(f.values) > 0 {
			next(f.column+" @> $%d", pq.Array(f.values))
		}
	}

	if params.DataDal != nil {
		next("created_at >= $%d", *params.DataDal)
	}
	if params.DataAl != nil {
		next("created_at <= $%d", *params.DataAl)
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// buildProfileQuery appends ordering and paging to the filtered SELECT.
func buildProfileQuery(params QueryParams, where string, args []any) (string, []any) {
	sortBy := params.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
		params.SortDesc = true
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM cv_profiles%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		selectColumns, where, sortBy, direction, n+1, n+2)
	out := append(append([]any{}, args...), pageSize, (page-1)*pageSize)
	return query, out
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// toSQLValue adapts payload values for lib/pq; string slices become arrays.
func toSQLValue(v any) any {
	switch t := v.(type) {
	case []string:
		return pq.Array(t)
	case Date:
		return t.Time
	case *Date:
		if t == nil {
			return nil
		}
		return t.Time
	default:
		return v
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*CandidateProfile, error) {
	var p CandidateProfile
	var nascita, scadenza sql.NullTime

	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.Nome, &p.Cognome, &p.Citta, &nascita,
		&p.Cellulare, &p.AnniEsperienza, &p.Competenze,
		pq.Array(&p.Tools), pq.Array(&p.Database), pq.Array(&p.Piattaforme),
		pq.Array(&p.SistemiOperativi), pq.Array(&p.LinguaggiProgrammazione),
		&p.ContrattoAttuale, &p.StipendioAttuale, &scadenza,
		&p.Preavviso, &p.TipoContrattoDesiderato, &p.StipendioDesiderato,
		&p.Note, &p.FileName, &p.ProcessStatus,
	)
	if err != nil {
		return nil, err
	}

	if nascita.Valid {
		p.DataNascita = &Date{nascita.Time}
	}
	if scadenza.Valid {
		p.ScadenzaContratto = &Date{scadenza.Time}
	}

	// Category lists are never null once stored.
	for _, list := range []*[]string{
		&p.Tools, &p.Database, &p.Piattaforme, &p.SistemiOperativi, &p.LinguaggiProgrammazione,
	} {
		if *list == nil {
			*list = []string{}
		}
	}
	return &p, nil
}
