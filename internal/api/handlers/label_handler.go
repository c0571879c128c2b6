package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thanhnp/minima-wallet-api/internal/models"
	"github.com/thanhnp/minima-wallet-api/internal/rpc"
	"github.com/thanhnp/minima-wallet-api/internal/storage"
)

// LabelHandler handles label updates for the wallet's own addresses
type LabelHandler struct {
	node   rpc.CommandRunner
	labels storage.LabelStore
}

// NewLabelHandler creates a new LabelHandler
func NewLabelHandler(node rpc.CommandRunner, labels storage.LabelStore) *LabelHandler {
	return &LabelHandler{
		node:   node,
		labels: labels,
	}
}

// Set creates or overwrites the label of an address owned by this wallet.
// An empty label is stored as is.
// POST /label
func (h *LabelHandler) Set(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	address, _ := stringField(body, "address")
	label, hasLabel := stringField(body, "label")
	if address == "" || !hasLabel {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address and label are required"})
		return
	}

	env := h.node.RunCommand(c.Request.Context(), "keys")
	if env.Unreachable {
		writeUnreachable(c, env)
		return
	}

	if !ownsAddress(env, address) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Address not found in this wallet"})
		return
	}

	err := h.labels.Update(func(labels map[string]string) error {
		labels[address] = label
		return nil
	})
	if err != nil {
		writeStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LabelResult{Address: address, Label: &label})
}

// ownsAddress reports whether address is among the keys in a keys reply
func ownsAddress(env *models.Envelope, address string) bool {
	for _, k := range keyList(env) {
		if k.Get("address").String() == address {
			return true
		}
	}
	return false
}
