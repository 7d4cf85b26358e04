package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/metrics"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/juju/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// maxQuoteBody upper bound of a quote response body
const maxQuoteBody = 64 << 10

// QuoteService fetches a quote from the remote quotes endpoint
// QuoteService 从远程接口获取名言
type QuoteService interface {
	// Fetch GET <base-url>/quotes，失败时返回包装了 domain.ErrQuoteUnavailable 的错误
	Fetch(ctx context.Context) (string, error)
}

// QuoteServiceConfig 名言服务配置
type QuoteServiceConfig struct {
	BaseURL string
	Timeout time.Duration
	// RatePerSecond 每秒允许的请求数，0 表示不限流
	RatePerSecond float64
	// RateBurst 令牌桶容量
	RateBurst int64
	// HTTPClient nil 时使用带 Timeout 的默认客户端
	HTTPClient *http.Client
}

type quoteService struct {
	url     string
	client  *http.Client
	bucket  *ratelimit.Bucket
	sf      singleflight.Group
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewQuoteService 创建 QuoteService 实例
func NewQuoteService(cfg QuoteServiceConfig, lg *zap.Logger, m *metrics.Collector) QuoteService {
	if lg == nil {
		lg = zap.NewNop()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	s := &quoteService{
		url:     strings.TrimRight(cfg.BaseURL, "/") + "/quotes",
		client:  client,
		logger:  lg,
		metrics: m,
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.bucket = ratelimit.NewBucketWithRate(cfg.RatePerSecond, burst)
	}
	return s
}

func (s *quoteService) Fetch(ctx context.Context) (string, error) {
	if s.bucket != nil && s.bucket.TakeAvailable(1) == 0 {
		s.metrics.IncQuoteFailure()
		return "", fmt.Errorf("%w: rate limited", domain.ErrQuoteUnavailable)
	}

	v, err, shared := s.sf.Do("quote", func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		s.metrics.IncQuoteFailure()
		s.logger.Warn("quote fetch failed", zap.String(logger.FieldURL, s.url), zap.Bool("shared", shared), zap.Error(err))
		return "", err
	}
	return v.(string), nil
}

func (s *quoteService) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxQuoteBody))
		return "", fmt.Errorf("%w: status %d", domain.ErrQuoteUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxQuoteBody))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrQuoteUnavailable, err)
	}

	s.logger.Debug("quote fetched", zap.Duration(logger.FieldDuration, time.Since(start)))
	return strings.TrimSpace(string(body)), nil
}
