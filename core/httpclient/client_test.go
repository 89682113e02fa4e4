package httpclient

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func okResponse(body string) *http.Response {
	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Type", "application/json")
	rec.WriteHeader(http.StatusOK)
	rec.Body.WriteString(body)
	return rec.Result()
}

func TestDoSuccess(t *testing.T) {
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return okResponse(`{"ok":true}`), nil
		}),
	}))
	req, _ := http.NewRequest(http.MethodGet, "https://mock/success", nil)
	resp, err := client.Do(req, false)
	if err != nil {
		t.Fatalf("预期成功，得到错误: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("状态码不匹配: %d", resp.StatusCode)
	}
}

func TestTimeoutClassified(t *testing.T) {
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}),
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "https://mock/slow", nil)

	started := time.Now()
	_, err := client.Do(req, false)
	elapsed := time.Since(started)
	if err == nil {
		t.Fatal("预期超时错误")
	}
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("错误类型应为 TimeoutError，实际: %v", err)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("超时生效过晚: %v", elapsed)
	}
}

func TestTimeoutSkipsFallback(t *testing.T) {
	attempts := 0
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			attempts++
			<-req.Context().Done()
			return nil, req.Context().Err()
		}),
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "https://mock/slow", nil)
	client.Do(req, false)
	if attempts != 1 {
		t.Fatalf("超时不应触发协议回退，尝试次数=%d", attempts)
	}
}

func TestProtocolFallback(t *testing.T) {
	var schemes []string
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			schemes = append(schemes, req.URL.Scheme)
			if req.URL.Scheme == "https" {
				return nil, errors.New("连接被拒绝")
			}
			return okResponse(`{}`), nil
		}),
	}))
	req, _ := http.NewRequest(http.MethodGet, "https://mock/x", nil)
	resp, err := client.Do(req, false)
	if err != nil {
		t.Fatalf("回退后应成功: %v", err)
	}
	resp.Body.Close()
	if len(schemes) != 2 || schemes[0] != "https" || schemes[1] != "http" {
		t.Fatalf("协议序列不匹配: %v", schemes)
	}
}

func TestFallbackFailureSurfacesOriginalError(t *testing.T) {
	first := errors.New("原始网络错误")
	second := errors.New("回退网络错误")
	attempt := 0
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			attempt++
			if attempt == 1 {
				return nil, first
			}
			return nil, second
		}),
	}))
	req, _ := http.NewRequest(http.MethodGet, "https://mock/x", nil)
	_, err := client.Do(req, false)
	if err == nil {
		t.Fatal("预期错误")
	}
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("错误类型应为 NetworkError: %v", err)
	}
	if !errors.Is(err, first) {
		t.Fatalf("应上抛原始错误，实际: %v", err)
	}
	if attempt != 2 {
		t.Fatalf("应恰好回退一次，尝试次数=%d", attempt)
	}
}

func TestCancelSkipsFallback(t *testing.T) {
	attempts := 0
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			attempts++
			<-req.Context().Done()
			return nil, req.Context().Err()
		}),
	}))
	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "https://mock/x", nil)
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := client.Do(req, false)
	if err == nil {
		t.Fatal("预期错误")
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		t.Fatalf("主动取消不应判定为超时: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("主动取消不应触发回退，尝试次数=%d", attempts)
	}
}

func TestBodyWithoutGetBodyCannotFallback(t *testing.T) {
	attempts := 0
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			attempts++
			return nil, errors.New("网络失败")
		}),
	}))
	req, _ := http.NewRequest(http.MethodPost, "https://mock/x", bytes.NewBufferString("data"))
	req.GetBody = nil // 模拟请求体不可重建的场景
	_, err := client.Do(req, false)
	if err == nil {
		t.Fatal("预期错误")
	}
	if attempts != 1 {
		t.Fatalf("请求体不可重建时不应回退，尝试次数=%d", attempts)
	}
}

func TestMiddlewareApplied(t *testing.T) {
	var gotUA, gotRequestID string
	client := NewClient(
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				gotUA = req.Header.Get("User-Agent")
				gotRequestID = req.Header.Get("X-Request-Id")
				return okResponse(`{}`), nil
			}),
		}),
		WithMiddlewares(WithUserAgent("nearhub-test"), WithRequestID()),
	)
	req, _ := http.NewRequest(http.MethodGet, "https://mock/mw", nil)
	resp, err := client.Do(req, false)
	if err != nil {
		t.Fatalf("预期成功: %v", err)
	}
	resp.Body.Close()
	if gotUA != "nearhub-test" {
		t.Fatalf("User-Agent 未注入: %q", gotUA)
	}
	if gotRequestID == "" {
		t.Fatal("X-Request-Id 未注入")
	}
}

func TestHostLimiter(t *testing.T) {
	limiter := NewHostLimiter(5, 1)
	client := NewClient(
		WithRateLimiter(limiter),
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				return okResponse(`{}`), nil
			}),
		}),
	)
	start := time.Now()
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, "https://mock/ratelimit", nil)
		resp, err := client.Do(req, false)
		if err != nil {
			t.Fatalf("限流请求失败: %v", err)
		}
		resp.Body.Close()
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Fatalf("限流未生效，耗时过短: %v", elapsed)
	}
}
