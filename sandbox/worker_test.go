package sandbox

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func serveCode(t *testing.T, code string) (int, response) {
	t.Helper()
	payload, err := json.Marshal(request{Code: code})
	require.NoError(t, err)
	var out bytes.Buffer
	rc := Serve(bytes.NewReader(payload), &out)
	dec := json.NewDecoder(&out)
	dec.UseNumber()
	var resp response
	require.NoError(t, dec.Decode(&resp))
	return rc, resp
}

func TestServeResult(t *testing.T) {
	rc, resp := serveCode(t, "result = 12345")
	require.Equal(t, 0, rc)
	require.Nil(t, resp.Error)
	require.Equal(t, json.Number("12345"), resp.Result)
}

func TestServeAssignmentChain(t *testing.T) {
	rc, resp := serveCode(t, "a = 2\nb = a * 3\nresult = a + b")
	require.Equal(t, 0, rc)
	require.Nil(t, resp.Error)
	require.Equal(t, json.Number("8"), resp.Result)
}

func TestServeValueKinds(t *testing.T) {
	tests := []struct {
		code string
		want any
	}{
		{`result = "eco" + "!"`, "eco!"},
		{"result = 1 / 2", json.Number("0.5")},
		{"x = 2\nresult = x == 2", true},
		{"result = not true", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rc, resp := serveCode(t, tt.code)
			require.Equal(t, 0, rc)
			require.Nil(t, resp.Error)
			require.Equal(t, tt.want, resp.Result)
		})
	}
}

func TestServeNoResultVariable(t *testing.T) {
	rc, resp := serveCode(t, "x = 1")
	require.Equal(t, 0, rc)
	require.Nil(t, resp.Error)
	require.Nil(t, resp.Result)
}

func TestServeBareExpression(t *testing.T) {
	rc, resp := serveCode(t, "1 + 2")
	require.Equal(t, 0, rc)
	require.Nil(t, resp.Error)
	require.Nil(t, resp.Result)
}

func TestServeSkipsBlanksAndComments(t *testing.T) {
	rc, resp := serveCode(t, "\n# setup\nresult = 7\n\n")
	require.Equal(t, 0, rc)
	require.Nil(t, resp.Error)
	require.Equal(t, json.Number("7"), resp.Result)
}

func TestServeCallRejected(t *testing.T) {
	rc, resp := serveCode(t, `result = len("abc")`)
	require.Equal(t, 0, rc)
	require.NotNil(t, resp.Error)
	require.Equal(t, "Call not allowed", *resp.Error)
	require.Nil(t, resp.Result)
}

func TestServeDangerousNames(t *testing.T) {
	rc, resp := serveCode(t, "result = __import__")
	require.Equal(t, 0, rc)
	require.NotNil(t, resp.Error)
	require.Equal(t, "name __import__ not allowed", *resp.Error)

	rc, resp = serveCode(t, "os = 1")
	require.Equal(t, 0, rc)
	require.NotNil(t, resp.Error)
	require.Equal(t, "name os not allowed", *resp.Error)
}

func TestServeEvalError(t *testing.T) {
	_, resp := serveCode(t, "result = missing")
	require.NotNil(t, resp.Error)
	require.Equal(t, "error: Undefined variable 'missing'", *resp.Error)

	_, resp = serveCode(t, "result = 1 / 0")
	require.NotNil(t, resp.Error)
	require.Equal(t, "error: division by zero", *resp.Error)
}

func TestServeParseError(t *testing.T) {
	rc, resp := serveCode(t, "result = 1 +")
	require.Equal(t, 0, rc)
	require.NotNil(t, resp.Error)
	require.True(t, strings.HasPrefix(*resp.Error, "parse_error: "))
}

func TestServeBadPayload(t *testing.T) {
	var out bytes.Buffer
	rc := Serve(strings.NewReader("not json"), &out)
	require.Equal(t, 1, rc)
	var resp response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	require.True(t, strings.HasPrefix(*resp.Error, "bad_payload: "))
}

func TestSplitAssign(t *testing.T) {
	tests := []struct {
		line     string
		name     string
		expr     string
		isAssign bool
	}{
		{"x = 1", "x", "1", true},
		{"result = a + b", "result", "a + b", true},
		{"x == 1", "", "", false},
		{"a <= b", "", "", false},
		{"a != b", "", "", false},
		{"1 + 2", "", "", false},
		{"= 5", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			name, expr, ok := splitAssign(tt.line)
			require.Equal(t, tt.isAssign, ok)
			if ok {
				require.Equal(t, tt.name, name)
				require.Equal(t, tt.expr, expr)
			}
		})
	}
}
