package proxy

import (
	"net/http"
	"testing"
)

func getEmptyUpgradeRequest() *http.Request {
	return &http.Request{Header: http.Header{}}
}

func getInvalidUpgradeRequest() *http.Request {
	header := http.Header{}
	header.Add("Connection", "Upgrade")
	return &http.Request{Header: header}
}

func getValidUpgradeRequest() (*http.Request, string) {
	prot := "chat"
	header := http.Header{}
	header.Add("Connection", "Upgrade")
	header.Add("Upgrade", prot)
	return &http.Request{Header: header}, prot
}

func TestEmptyGetUpgradeRequest(t *testing.T) {
	req := getEmptyUpgradeRequest()
	if isUpgradeRequest(req) {
		t.Errorf("request has no upgrade header, but isUpgradeRequest returned true for %+v", req)
	}
	if getUpgradeRequest(req) != "" {
		t.Errorf("request has no upgrade header, but getUpgradeRequest returned non-empty for %+v", req)
	}
}

func TestInvalidGetUpgradeRequest(t *testing.T) {
	req := getInvalidUpgradeRequest()
	if !isUpgradeRequest(req) {
		t.Errorf("request has a connection upgrade header, isUpgradeRequest should return true for %+v", req)
	}
	if getUpgradeRequest(req) != "" {
		t.Errorf("request has no upgrade header value, but getUpgradeRequest returned non-empty for %+v", req)
	}
}

func TestValidGetUpgradeRequest(t *testing.T) {
	req, prot := getValidUpgradeRequest()
	if !isUpgradeRequest(req) {
		t.Errorf("request has an upgrade header, but isUpgradeRequest returned false for %+v", req)
	}
	if getUpgradeRequest(req) != prot {
		t.Errorf("got %q, want %q", getUpgradeRequest(req), prot)
	}
}

func TestUpgradeRequestCaseInsensitiveAndCommaSeparated(t *testing.T) {
	header := http.Header{}
	header.Add("Connection", "keep-alive, Upgrade")
	req := &http.Request{Header: header}
	if !isUpgradeRequest(req) {
		t.Errorf("Connection header with multiple comma-separated tokens must still be detected")
	}
}
