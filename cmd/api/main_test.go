package main

import (
	"net/http"
	"testing"

	"fortunasbet-api/interfaces/http/rest"

	"github.com/stretchr/testify/assert"
)

func TestNewServer_WriteTimeoutOutlastsRouter(t *testing.T) {
	srv := newServer(":0", http.NewServeMux())

	assert.Greater(t, srv.WriteTimeout, rest.RequestTimeout)
	assert.Equal(t, ":0", srv.Addr)
}
