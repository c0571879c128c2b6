package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/thanhnp/minima-wallet-api/internal/models"
	"github.com/thanhnp/minima-wallet-api/internal/rpc"
	"github.com/thanhnp/minima-wallet-api/internal/storage"
)

// AddressHandler handles wallet address listing and creation
type AddressHandler struct {
	node   rpc.CommandRunner
	labels storage.LabelStore
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(node rpc.CommandRunner, labels storage.LabelStore) *AddressHandler {
	return &AddressHandler{
		node:   node,
		labels: labels,
	}
}

// List returns the wallet's addresses with their labels, in node order
// GET /addresses
func (h *AddressHandler) List(c *gin.Context) {
	env := h.node.RunCommand(c.Request.Context(), "keys")
	if env.Unreachable {
		writeUnreachable(c, env)
		return
	}

	labels, err := h.labels.Load()
	if err != nil {
		writeStoreError(c, err)
		return
	}

	keys := keyList(env)
	out := make([]models.AddressRecord, 0, len(keys))
	for _, k := range keys {
		record := models.AddressRecord{
			Address:   optString(k.Get("address")),
			PublicKey: optString(k.Get("publickey")),
			Simple:    optBool(k.Get("simple")),
			Default:   optBool(k.Get("default")),
		}
		if record.Address != nil {
			if label, ok := labels[*record.Address]; ok {
				record.Label = &label
			}
		}
		out = append(out, record)
	}

	c.JSON(http.StatusOK, out)
}

// Create derives a new receive address and optionally labels it
// POST /addresses
func (h *AddressHandler) Create(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	var label *string
	if field := body.Get("label"); field.Exists() && field.Type != gjson.Null {
		if field.Type != gjson.String {
			c.JSON(http.StatusBadRequest, gin.H{"error": "label must be a string"})
			return
		}
		label = &field.Str
	}

	env := h.node.RunCommand(c.Request.Context(), "newaddress")
	if !env.HasResponse() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create address", "details": env})
		return
	}

	address := env.Result().Get("address").String()
	if address == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No address returned", "details": env})
		return
	}

	if label != nil && *label != "" {
		err := h.labels.Update(func(labels map[string]string) error {
			labels[address] = *label
			return nil
		})
		if err != nil {
			writeStoreError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, models.LabelResult{Address: address, Label: label})
}
