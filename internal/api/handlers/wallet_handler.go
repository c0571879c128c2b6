package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/thanhnp/minima-wallet-api/internal/config"
	"github.com/thanhnp/minima-wallet-api/internal/models"
	"github.com/thanhnp/minima-wallet-api/internal/rpc"
)

// WalletHandler handles token balance, send and history requests
type WalletHandler struct {
	node    rpc.CommandRunner
	tokenID string
}

// NewWalletHandler creates a new WalletHandler scoped to the configured token
func NewWalletHandler(node rpc.CommandRunner, cfg config.NodeConfig) *WalletHandler {
	return &WalletHandler{
		node:    node,
		tokenID: cfg.TokenID,
	}
}

// GetBalance returns the whole wallet balance of the token
// GET /balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	env := h.node.RunCommand(c.Request.Context(), "balance")
	if env.Unreachable {
		writeUnreachable(c, env)
		return
	}

	for _, entry := range env.Result().Array() {
		if strings.EqualFold(entry.Get("tokenid").String(), h.tokenID) {
			c.Data(http.StatusOK, jsonContentType, []byte(entry.Raw))
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Token not found in wallet"})
}

// Send sends an amount of the token to an address
// POST /send
func (h *WalletHandler) Send(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	address, _ := stringField(body, "address")
	amount := sendAmount(body.Get("amount"))
	if address == "" || amount == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address and amount are required"})
		return
	}
	if !commandSafe(address) || !commandSafe(amount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address and amount must not contain whitespace"})
		return
	}

	cmd := fmt.Sprintf("send amount:%s address:%s tokenid:%s", amount, address, h.tokenID)
	writeEnvelope(c, h.node.RunCommand(c.Request.Context(), cmd))
}

// GetHistory returns the transaction history of the token
// GET /history
func (h *WalletHandler) GetHistory(c *gin.Context) {
	cmd := fmt.Sprintf("txpowsearch %s", h.tokenID)
	writeEnvelope(c, h.node.RunCommand(c.Request.Context(), cmd))
}

// GetAddressBalance sums the token coins held by a single address
// GET /balance/:address
func (h *WalletHandler) GetAddressBalance(c *gin.Context) {
	address := c.Param("address")
	if !commandSafe(address) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address must not contain whitespace"})
		return
	}

	cmd := fmt.Sprintf("coins tokenid:%s address:%s", h.tokenID, address)
	env := h.node.RunCommand(c.Request.Context(), cmd)
	if env.Unreachable {
		writeUnreachable(c, env)
		return
	}

	coins := env.Result()
	utxos := []byte("[]")
	if coins.Exists() && coins.Type != gjson.Null {
		utxos = []byte(coins.Raw)
	}

	c.JSON(http.StatusOK, models.BalanceRecord{
		Address: address,
		TokenID: h.tokenID,
		Balance: sumAmounts(coins),
		UTXOs:   utxos,
	})
}

// amountField accepts an amount given as a JSON string or number and
// returns it in textual form, or "" when missing or of any other type.
func amountField(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	}
	return ""
}

// sendAmount reads the amount of a send request. A numeric zero counts as
// missing, like an empty string.
func sendAmount(r gjson.Result) string {
	if r.Type == gjson.Number && r.Num == 0 {
		return ""
	}
	return amountField(r)
}

// maxAmountExponent bounds the decimal exponent of a coin amount. Larger
// exponents would make exact addition rescale to enormous integers.
const maxAmountExponent = 64

// sumAmounts adds up the amount of every coin exactly and formats the total
// with the largest number of decimal places found among the amounts, so
// "1.50" + "2.50" is "4.00". Coins whose amount is missing, not a decimal
// number or out of range are skipped.
func sumAmounts(coins gjson.Result) string {
	total := decimal.Zero
	var places int32
	if !coins.IsArray() {
		return total.String()
	}
	for _, coin := range coins.Array() {
		amount := amountField(coin.Get("amount"))
		if amount == "" {
			continue
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			continue
		}
		exp := d.Exponent()
		if exp > maxAmountExponent || exp < -maxAmountExponent {
			continue
		}
		if -exp > places {
			places = -exp
		}
		total = total.Add(d)
	}
	return total.StringFixed(places)
}
