package api

import (
	"time"

	"github.com/valyala/fasthttp"
)

// ConnectionConfig holds configuration for upstream connections
type ConnectionConfig struct {
	MaxConnsPerHost     int           `json:"max_conns_per_host"`
	MaxIdleConnDuration time.Duration `json:"max_idle_conn_duration"`
	ReadTimeout         time.Duration `json:"read_timeout"`
	WriteTimeout        time.Duration `json:"write_timeout"`
	RequestTimeout      time.Duration `json:"request_timeout"`
	UserAgent           string        `json:"user_agent"`
}

// DefaultConnectionConfig returns default connection settings
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxConnsPerHost:     16,
		MaxIdleConnDuration: 90 * time.Second,
		ReadTimeout:         30 * time.Second,
		WriteTimeout:        10 * time.Second,
		RequestTimeout:      30 * time.Second,
		UserAgent:           "keyword-research/1.0",
	}
}

// NewFastHTTPClient builds a pooled fasthttp client from config
func NewFastHTTPClient(config ConnectionConfig) *fasthttp.Client {
	return &fasthttp.Client{
		Name:                     config.UserAgent,
		MaxConnsPerHost:          config.MaxConnsPerHost,
		MaxIdleConnDuration:      config.MaxIdleConnDuration,
		ReadTimeout:              config.ReadTimeout,
		WriteTimeout:             config.WriteTimeout,
		NoDefaultUserAgentHeader: config.UserAgent == "",
	}
}
