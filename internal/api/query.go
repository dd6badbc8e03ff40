package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"github.com/samber/lo"

	"github.com/pable/go-ns2-stats/internal/model"
)

// Decoder caches struct metadata and is safe to share.
var Decoder = newDecoder() //nolint:gochecknoglobals

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// BindQuery decodes the request query string into target, reporting a 400 on failure.
func BindQuery(ctx *gin.Context, target any) bool {
	if errBind := Decoder.Decode(target, ctx.Request.URL.Query()); errBind != nil {
		SetError(ctx, NewAPIErrorf(http.StatusBadRequest,
			errors.Join(errBind, ErrBadRequest),
			"Could not decode query params: %v", errBind))

		return false
	}

	return true
}

type rangeQuery struct {
	From *int64 `schema:"from"`
	To   *int64 `schema:"to"`
}

func (q rangeQuery) Range() model.Range {
	return model.Range{From: q.From, To: q.To}
}

// bindRange decodes from/to and rejects inverted ranges.
func bindRange(ctx *gin.Context) (model.Range, bool) {
	var q rangeQuery
	if !BindQuery(ctx, &q) {
		return model.Range{}, false
	}

	r := q.Range()
	if !r.Valid() {
		SetError(ctx, NewAPIErrorf(http.StatusBadRequest, ErrInvalidRange,
			"from (%d) is after to (%d)", *r.From, *r.To))

		return model.Range{}, false
	}

	return r, true
}

type teamsQuery struct {
	Players   []string `schema:"players"`
	MarineCom string   `schema:"marine_com"`
	AlienCom  string   `schema:"alien_com"`
	Skill     string   `schema:"skill"`
}

// pool flattens repeated and comma separated players params.
func (q teamsQuery) pool() []string {
	var out []string
	for _, p := range q.Players {
		out = append(out, strings.Split(p, ",")...)
	}

	return lo.Uniq(lo.Compact(lo.Map(out, func(s string, _ int) string { return strings.TrimSpace(s) })))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}
