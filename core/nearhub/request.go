package nearhub

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/luoxbin/nearhub-desktop/core/auth"
	"github.com/luoxbin/nearhub-desktop/core/cache"
	coreerrors "github.com/luoxbin/nearhub-desktop/core/errors"
	"github.com/luoxbin/nearhub-desktop/core/eventbus"
)

// Response 是一次逻辑调用的结果。
type Response struct {
	Status int
	Header http.Header
	// JSON 为响应体解析成功时的结构化值，否则为 nil。
	JSON any
	// Text 为响应体原始文本。
	Text string
}

// Request 端到端执行一次 API 调用：构造请求、查缓存、发网络请求、
// 处理 401 刷新重放、识别服务端刷新信号、分类失败并回填缓存。
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*Response, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	if opts.Body != nil && (len(opts.Form) > 0 || len(opts.Files) > 0) {
		return nil, coreerrors.New(coreerrors.ErrCodeInvalidArgument, "nearhub: body 与 multipart 互斥")
	}
	if len(opts.Files) > 0 {
		files, err := bufferFiles(opts.Files)
		if err != nil {
			return nil, err
		}
		opts.Files = files
	}

	fullURL := c.buildURL(path)
	key := cache.Key(method, fullURL)
	useCache := method == http.MethodGet && opts.CacheMode == CacheDefault
	if useCache {
		if v, ok := c.cache.Get(key); ok {
			if cached, isResp := v.(*Response); isResp {
				return cached, nil
			}
		}
	}

	status, header, raw, err := c.roundTrip(ctx, method, fullURL, path, opts)
	if err != nil {
		return nil, err
	}

	// 401 时机会仅一次的刷新重放：非认证接口、允许重试、已有令牌、
	// 且运行环境能携带 httpOnly Cookie。重放强制 NoRetry，绝不二次刷新。
	if status == http.StatusUnauthorized && c.canRefresh(path, opts) {
		newToken, refreshErr := c.refresher.Refresh(ctx)
		if refreshErr == nil {
			c.tokens.Set(newToken)
			replay := opts
			replay.NoRetry = true
			return c.Request(ctx, path, replay)
		}
		// 刷新失败则按原始 401 走常规错误处理
		c.logger.Errorf("nearhub: 令牌刷新失败: %v", refreshErr)
	}

	if header.Get(HeaderUIReload) == "1" {
		c.cache.InvalidateAll()
		c.bus.PublishUIReload()
	}

	resp := parseResponse(status, header, raw)

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		var eb errorBody
		if len(raw) > 0 {
			json.Unmarshal(raw, &eb)
		}
		decision := auth.Classify(auth.Failure{
			Status:   status,
			Code:     eb.code(),
			Message:  eb.message(),
			Path:     path,
			Suppress: opts.SuppressAuthHandling,
		})
		if decision.ForceLogout {
			c.forceLogout(decision.Reason, status, eb.code(), path)
		}
		body := resp.JSON
		if body == nil {
			body = resp.Text
		}
		return nil, &APIError{
			Status:  status,
			Code:    eb.code(),
			Message: eb.message(),
			Details: eb.Details,
			Body:    body,
		}
	}

	if useCache {
		ttl := opts.TTL
		if ttl == 0 {
			ttl = c.cacheTTL
		}
		c.cache.Put(key, resp, ttl)
	}
	return resp, nil
}

// roundTrip 执行单次网络往返并整体读出响应体。
func (c *Client) roundTrip(ctx context.Context, method, fullURL, path string, opts RequestOptions) (int, http.Header, []byte, error) {
	body, contentType, err := buildBody(opts)
	if err != nil {
		return 0, nil, nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return 0, nil, nil, coreerrors.Wrap(coreerrors.ErrCodeInvalidArgument, "nearhub: 构造请求失败", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Get(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if !auth.IsAuthPath(path) {
		req.Header.Set(HeaderShouldReload, "1")
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req, opts.IncludeCredentials)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()
	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return 0, nil, nil, coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "nearhub: 读取响应体失败", readErr)
	}
	return resp.StatusCode, resp.Header, raw, nil
}

// buildBody 按互斥规则生成请求体：multipart 的 Content-Type
// 由 writer 生成（含边界），JSON 显式标注。
func buildBody(opts RequestOptions) (io.Reader, string, error) {
	if len(opts.Form) > 0 || len(opts.Files) > 0 {
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for field, values := range opts.Form {
			for _, value := range values {
				if err := w.WriteField(field, value); err != nil {
					return nil, "", coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "nearhub: 写入表单字段失败", err)
				}
			}
		}
		for _, file := range opts.Files {
			part, err := w.CreateFormFile(file.Field, file.FileName)
			if err != nil {
				return nil, "", coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "nearhub: 创建文件字段失败", err)
			}
			if _, err := part.Write(file.data); err != nil {
				return nil, "", coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "nearhub: 写入文件内容失败", err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "nearhub: 关闭 multipart 失败", err)
		}
		return bytes.NewReader(buf.Bytes()), w.FormDataContentType(), nil
	}
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, "", coreerrors.Wrap(coreerrors.ErrCodeInvalidArgument, "nearhub: 序列化请求体失败", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}
	return nil, "", nil
}

// bufferFiles 把每个文件读进内存。已缓冲的条目（重放路径）原样保留。
func bufferFiles(files []FormFile) ([]FormFile, error) {
	buffered := make([]FormFile, len(files))
	for i, f := range files {
		if f.data != nil {
			buffered[i] = f
			continue
		}
		data, err := io.ReadAll(f.Content)
		if err != nil {
			return nil, coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "nearhub: 读取文件内容失败", err)
		}
		f.data = data
		buffered[i] = f
	}
	return buffered, nil
}

// buildURL 拼接完整地址；非认证接口追加后端契约要求的 shouldReload 参数。
func (c *Client) buildURL(path string) string {
	u := c.baseURL
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u += path
	if auth.IsAuthPath(path) {
		return u
	}
	if strings.Contains(u, "?") {
		return u + "&" + ParamShouldReload + "=1"
	}
	return u + "?" + ParamShouldReload + "=1"
}

func (c *Client) canRefresh(path string, opts RequestOptions) bool {
	return !opts.NoRetry &&
		c.platform == PlatformWeb &&
		c.refresher != nil &&
		c.tokens.Get() != "" &&
		!auth.IsAuthPath(path)
}

// forceLogout 清除令牌并广播 auth:logout。
// 缓存由订阅者清理，此处不强制清空。
func (c *Client) forceLogout(reason eventbus.LogoutReason, status int, code, path string) {
	c.tokens.Clear()
	c.bus.PublishLogout(eventbus.LogoutEvent{
		Reason: reason,
		Status: status,
		Code:   code,
		Path:   path,
	})
}

func parseResponse(status int, header http.Header, raw []byte) *Response {
	resp := &Response{
		Status: status,
		Header: header,
		Text:   string(raw),
	}
	if len(raw) > 0 {
		var v any
		if err := json.Unmarshal(raw, &v); err == nil {
			resp.JSON = v
		}
	}
	return resp
}

// requestJSON 执行调用并把响应体解析到 out。
func (c *Client) requestJSON(ctx context.Context, path string, opts RequestOptions, out any) error {
	resp, err := c.Request(ctx, path, opts)
	if err != nil {
		return err
	}
	if out == nil || resp.Text == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(resp.Text), out); err != nil {
		return coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "nearhub: 响应解析失败", err)
	}
	return nil
}
