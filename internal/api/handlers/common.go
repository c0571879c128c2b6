package handlers

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/thanhnp/minima-wallet-api/internal/models"
)

const jsonContentType = "application/json; charset=utf-8"

// readBody parses the request body as a JSON object. An empty body reads as
// an empty object. On failure a 400 response is written and ok is false.
func readBody(c *gin.Context) (gjson.Result, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return gjson.Result{}, false
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return gjson.Parse("{}"), true
	}
	if !gjson.ValidBytes(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return gjson.Result{}, false
	}

	body := gjson.ParseBytes(raw)
	switch {
	case body.IsObject():
		return body, true
	case body.Type == gjson.Null:
		return gjson.Parse("{}"), true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
	return gjson.Result{}, false
}

// stringField returns a JSON string field. ok is false when the field is
// missing, null or not a string.
func stringField(body gjson.Result, key string) (string, bool) {
	field := body.Get(key)
	if field.Type != gjson.String {
		return "", false
	}
	return field.Str, true
}

// optString reads a node field that may be missing
func optString(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.Str
	return &s
}

// optBool reads a node field that may be missing
func optBool(r gjson.Result) *bool {
	switch r.Type {
	case gjson.True, gjson.False:
		b := r.Bool()
		return &b
	}
	return nil
}

// commandSafe reports whether value can be embedded as a single command
// parameter value
func commandSafe(value string) bool {
	return strings.IndexFunc(value, unicode.IsSpace) < 0
}

// keyList extracts the key entries from a keys reply. Both a bare array and
// an object holding a "keys" array are accepted.
func keyList(env *models.Envelope) []gjson.Result {
	result := env.Result()
	if result.IsObject() {
		result = result.Get("keys")
	}
	if !result.IsArray() {
		return nil
	}
	return result.Array()
}

// writeEnvelope passes a node reply through unchanged. A reply that never
// arrived is reported as 502 with the same body shape.
func writeEnvelope(c *gin.Context, env *models.Envelope) {
	status := http.StatusOK
	if env.Unreachable {
		status = http.StatusBadGateway
	}
	c.Data(status, jsonContentType, env.Raw())
}

// writeUnreachable reports a node that could not be reached
func writeUnreachable(c *gin.Context, env *models.Envelope) {
	c.JSON(http.StatusBadGateway, gin.H{
		"error":   "node unavailable",
		"details": env,
	})
}

// writeStoreError reports a label store failure
func writeStoreError(c *gin.Context, err error) {
	log.WithError(err).Error("Label store failure")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "label store unavailable",
		"details": err.Error(),
	})
}
