package identitytest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const maxBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func copyLimited(dst *strings.Builder, r *http.Request) (int64, error) {
	return io.Copy(dst, io.LimitReader(r.Body, maxBody))
}

func readCloser(b []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(b))
}

func withClaims(ctx context.Context, c *claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func claimsFrom(ctx context.Context) *claims {
	if c, ok := ctx.Value(ctxKey{}).(*claims); ok {
		return c
	}
	return &claims{}
}
