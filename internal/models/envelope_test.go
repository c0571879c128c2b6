package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	raw := []byte(`{"command":"keys","status":true,"pending":false,"response":[{"address":"Mx1"}]}`)
	env, err := NewEnvelope(raw)
	require.NoError(t, err)
	require.True(t, env.Status)
	require.Empty(t, env.Error)
	require.False(t, env.Unreachable)
	require.Equal(t, raw, env.Raw())
	require.Equal(t, "Mx1", env.Result().Get("0.address").String())

	_, err = NewEnvelope([]byte(`not json`))
	require.Error(t, err)
	_, err = NewEnvelope([]byte(`[1,2]`))
	require.Error(t, err)
}

func TestFailedEnvelope(t *testing.T) {
	env := FailedEnvelope(errors.New("connection refused"))
	require.False(t, env.Status)
	require.True(t, env.Unreachable)
	require.False(t, env.Result().Exists())
	require.JSONEq(t, `{"status":false,"error":"connection refused"}`, string(env.Raw()))
}

func TestHasResponse(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"status":true,"response":{"address":"Mx1"}}`, true},
		{`{"status":true,"response":{}}`, false},
		{`{"status":true,"response":[]}`, false},
		{`{"status":true,"response":null}`, false},
		{`{"status":true,"response":""}`, false},
		{`{"status":true,"response":"ok"}`, true},
		{`{"status":false}`, false},
	}
	for _, tt := range tests {
		env, err := NewEnvelope([]byte(tt.raw))
		require.NoError(t, err)
		require.Equal(t, tt.want, env.HasResponse(), tt.raw)
	}
}
