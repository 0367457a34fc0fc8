package http

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aitutor/tutor-api/internal/rbac"
	"github.com/aitutor/tutor-api/internal/users"
)

const maxImportBody = 5 << 20

// GET /api/users?role=
func ListUsersHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := strings.TrimSpace(r.URL.Query().Get("role"))
		if role != "" && !rbac.ValidRole(role) {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		list, err := d.Users.List(r.Context(), role)
		if err != nil {
			internalError(w, r, d.Log, "list users", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": list})
	}
}

// POST /api/users/import accepts a multipart file= (CSV or JSON) or a raw
// JSON array in the body.
func ImportUsersHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImportBody)
		var rows []users.ImportRow
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			f, _, err := r.FormFile("file")
			if err != nil {
				writeError(w, http.StatusBadRequest, "file is required")
				return
			}
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil || len(strings.TrimSpace(string(data))) == 0 {
				writeError(w, http.StatusBadRequest, "empty file")
				return
			}
			trimmed := strings.TrimSpace(string(data))
			if trimmed[0] == '[' {
				if err := json.Unmarshal(data, &rows); err != nil {
					writeError(w, http.StatusBadRequest, "bad json")
					return
				}
			} else {
				rows, err = parseCSV(strings.NewReader(trimmed))
				if err != nil {
					writeError(w, http.StatusBadRequest, "bad csv: "+err.Error())
					return
				}
			}
		} else if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
			writeError(w, http.StatusBadRequest, "expected JSON array or multipart file")
			return
		}
		if len(rows) == 0 {
			writeJSON(w, http.StatusOK, map[string]int{"inserted": 0, "updated": 0})
			return
		}

		ins, upd, err := d.Users.Import(r.Context(), rows)
		switch {
		case errors.Is(err, users.ErrInvalidImport):
			writeError(w, http.StatusBadRequest, strings.TrimSuffix(err.Error(), ": "+users.ErrInvalidImport.Error()))
			return
		case errors.Is(err, users.ErrLastAdmin):
			writeError(w, http.StatusBadRequest, "cannot demote the last admin")
			return
		case err != nil:
			internalError(w, r, d.Log, "import users", err)
			return
		}
		d.Log.Info("users imported", "inserted", ins, "updated", upd)
		writeJSON(w, http.StatusOK, map[string]int{"inserted": ins, "updated": upd})
	}
}

func parseCSV(r io.Reader) ([]users.ImportRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["email"]; !ok {
		return nil, errors.New("missing column: email")
	}
	col := func(rec []string, name string) string {
		if i, ok := idx[name]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	var rows []users.ImportRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, users.ImportRow{
			Email:    col(rec, "email"),
			FullName: col(rec, "full_name"),
			Role:     strings.ToLower(col(rec, "role")),
			Password: col(rec, "password"),
		})
	}
	return rows, nil
}
