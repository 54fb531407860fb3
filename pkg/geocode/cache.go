package geocode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// normalizeQuery folds case, applies NFKC and collapses whitespace so that
// trivially different spellings of an address share a cache entry.
func normalizeQuery(q string) string {
	q = norm.NFKC.String(q)
	q = cases.Fold().String(q)
	return strings.Join(strings.Fields(q), " ")
}

// cacheKey returns SHA-256 hex of the normalized query.
func cacheKey(query string) string {
	h := sha256.Sum256([]byte(normalizeQuery(query)))
	return hex.EncodeToString(h[:])
}

func (g *geocoder) checkCache(ctx context.Context, key string) ([]Candidate, bool) {
	if g.cache == nil {
		return nil, false
	}
	payload, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		zap.L().Warn("geocode: cache lookup failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var cands []Candidate
	if err := json.Unmarshal(payload, &cands); err != nil {
		zap.L().Warn("geocode: discarding corrupt cache entry", zap.String("key", key[:12]), zap.Error(err))
		return nil, false
	}
	zap.L().Debug("geocode cache hit", zap.String("key", key[:12]), zap.Int("candidates", len(cands)))
	return cands, true
}

func (g *geocoder) storeCache(ctx context.Context, key string, cands []Candidate) {
	if g.cache == nil {
		return
	}
	if cands == nil {
		cands = []Candidate{}
	}
	payload, err := json.Marshal(cands)
	if err != nil {
		zap.L().Warn("geocode: encode cache entry", zap.Error(err))
		return
	}
	if err := g.cache.Put(ctx, key, payload); err != nil {
		zap.L().Warn("geocode: cache store failed", zap.Error(err))
	}
}
