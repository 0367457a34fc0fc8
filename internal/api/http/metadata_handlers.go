package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

const metadataPrefix = "meta:"

func metadataKey(kind string, parts ...string) string {
	return metadataPrefix + kind + ":" + strings.Join(parts, "|")
}

func levelKey(cl *int) string {
	if cl == nil {
		return ""
	}
	return strconv.Itoa(*cl)
}

// cached serves key from d.Cache or fills it with load. Cache failures are
// logged and fall through to the database.
func cached(ctx context.Context, d Deps, key string, load func() ([]string, error)) ([]string, error) {
	if d.Cache != nil {
		var out []string
		hit, err := d.Cache.Get(ctx, key, &out)
		if err != nil {
			d.Log.Warn("cache get", "key", key, "error", err)
		} else if hit {
			return out, nil
		}
	}
	out, err := load()
	if err != nil {
		return nil, err
	}
	if d.Cache != nil {
		if err := d.Cache.Set(ctx, key, out); err != nil {
			d.Log.Warn("cache set", "key", key, "error", err)
		}
	}
	return out, nil
}

func invalidateMetadata(ctx context.Context, d Deps) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.InvalidatePrefix(ctx, metadataPrefix); err != nil {
		d.Log.Warn("cache invalidate", "prefix", metadataPrefix, "error", err)
	}
}

// GET /api/metadata/subjects?stream&class_level
func SubjectsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stream := strings.TrimSpace(r.URL.Query().Get("stream"))
		cl, err := queryInt(r, "class_level")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		subjects, err := cached(r.Context(), d, metadataKey("subjects", stream, levelKey(cl)), func() ([]string, error) {
			return d.Content.Subjects(r.Context(), stream, cl)
		})
		if err != nil {
			internalError(w, r, d.Log, "list subjects", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"subjects": subjects})
	}
}

// GET /api/metadata/topics?subject&stream&class_level
func TopicsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := strings.TrimSpace(r.URL.Query().Get("subject"))
		if subject == "" {
			writeError(w, http.StatusBadRequest, "Subject is required")
			return
		}
		stream := strings.TrimSpace(r.URL.Query().Get("stream"))
		cl, err := queryInt(r, "class_level")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		topics, err := cached(r.Context(), d, metadataKey("topics", subject, stream, levelKey(cl)), func() ([]string, error) {
			return d.Content.Topics(r.Context(), subject, stream, cl)
		})
		if err != nil {
			internalError(w, r, d.Log, "list topics", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
	}
}
