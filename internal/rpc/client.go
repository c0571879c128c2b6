package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/thanhnp/minima-wallet-api/internal/config"
	"github.com/thanhnp/minima-wallet-api/internal/metrics"
	"github.com/thanhnp/minima-wallet-api/internal/models"
	"github.com/thanhnp/minima-wallet-api/pkg/semver"
)

// maxReplySize bounds how much of a node reply is read
const maxReplySize = 32 << 20

// Compatible Minima node versions
var compatibleNodeVersions = []semver.Version{
	{Major: 1, Minor: 0, Patch: 0},
}

// CommandRunner runs a single textual command against the node
type CommandRunner interface {
	RunCommand(ctx context.Context, command string) *models.Envelope
}

// Client sends commands to a Minima node's command endpoint
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	metrics  *metrics.Metrics
}

// NewClient creates a new node command client
func NewClient(cfg config.NodeConfig, m *metrics.Metrics) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.URL, "/") + "/command",
		timeout:  cfg.CommandTimeout(),
		http:     &http.Client{},
		metrics:  m,
	}
}

type commandRequest struct {
	Command string `json:"command"`
}

// RunCommand sends command to the node and returns its reply. Failures never
// surface as errors: they come back as an envelope with status false and the
// error message set.
func (c *Client) RunCommand(ctx context.Context, command string) *models.Envelope {
	start := time.Now()
	verb := commandVerb(command)

	env, err := c.do(ctx, command)
	if err != nil {
		log.WithFields(log.Fields{
			"command": verb,
			"elapsed": time.Since(start),
		}).Warnf("Node command failed: %v", err)
		c.metrics.ObserveCommand(verb, metrics.OutcomeUnreachable, time.Since(start))
		return models.FailedEnvelope(err)
	}

	outcome := metrics.OutcomeOK
	if !env.Status {
		outcome = metrics.OutcomeFailed
		log.WithField("command", verb).Debugf("Node rejected command: %s", env.Error)
	}
	c.metrics.ObserveCommand(verb, outcome, time.Since(start))
	return env
}

func (c *Client) do(ctx context.Context, command string) (*models.Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(commandRequest{Command: command})
	if err != nil {
		return nil, fmt.Errorf("failed to encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to node failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read node reply: %w", err)
	}

	env, err := models.NewEnvelope(raw)
	if err != nil {
		return nil, fmt.Errorf("node replied %s: %w", resp.Status, err)
	}
	return env, nil
}

// CheckNodeVersion asks the node for its status and verifies that its
// version is one this service can talk to.
func (c *Client) CheckNodeVersion(ctx context.Context) (semver.Version, error) {
	env := c.RunCommand(ctx, "status")
	if env.Unreachable {
		return semver.Version{}, fmt.Errorf("unable to get node status: %s", env.Error)
	}

	raw := env.Result().Get("version").String()
	if raw == "" {
		return semver.Version{}, fmt.Errorf("node status did not report a version")
	}

	nodeVer, err := semver.Parse(raw)
	if err != nil {
		return semver.Version{}, err
	}

	if !semver.AnyCompatible(compatibleNodeVersions, nodeVer) {
		return nodeVer, fmt.Errorf("node does not have a compatible version. "+
			"Advertises %v but requires one of: %v", nodeVer, compatibleNodeVersions)
	}
	return nodeVer, nil
}

// commandVerb returns the first word of a command, used as a low-cardinality label
func commandVerb(command string) string {
	if fields := strings.Fields(command); len(fields) > 0 {
		return fields[0]
	}
	return "empty"
}
