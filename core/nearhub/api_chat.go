package nearhub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/luoxbin/nearhub-desktop/core/model"
)

// conversationsFragment 用于写操作后定向失效会话资源族的缓存。
const conversationsFragment = "/conversations"

type conversationsResponse struct {
	Conversations []ConversationDTO `json:"conversations"`
}

// Conversations 返回会话列表。
func (c *Client) Conversations(ctx context.Context) ([]model.Conversation, error) {
	var body conversationsResponse
	if err := c.requestJSON(ctx, "/conversations", RequestOptions{}, &body); err != nil {
		return nil, err
	}
	result := make([]model.Conversation, 0, len(body.Conversations))
	for i := range body.Conversations {
		result = append(result, body.Conversations[i].ToModel())
	}
	return result, nil
}

type messagesResponse struct {
	Messages []MessageDTO `json:"messages"`
}

// Messages 返回指定会话的消息记录。
func (c *Client) Messages(ctx context.Context, conversationID string) ([]model.Message, error) {
	var body messagesResponse
	path := fmt.Sprintf("/conversations/%s/messages", conversationID)
	if err := c.requestJSON(ctx, path, RequestOptions{}, &body); err != nil {
		return nil, err
	}
	result := make([]model.Message, 0, len(body.Messages))
	for i := range body.Messages {
		result = append(result, body.Messages[i].ToModel())
	}
	return result, nil
}

// SendMessage 发送消息并失效会话缓存族。
func (c *Client) SendMessage(ctx context.Context, conversationID, text string) (model.Message, error) {
	var dto MessageDTO
	path := fmt.Sprintf("/conversations/%s/messages", conversationID)
	err := c.requestJSON(ctx, path, RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"text": text},
	}, &dto)
	if err != nil {
		return model.Message{}, err
	}
	c.cache.InvalidateByFragment(conversationsFragment)
	return dto.ToModel(), nil
}

// MarkRead 标记会话为已读。
func (c *Client) MarkRead(ctx context.Context, conversationID string) error {
	_, err := c.Request(ctx, fmt.Sprintf("/conversations/%s/read", conversationID), RequestOptions{
		Method: http.MethodPost,
	})
	if err != nil {
		return err
	}
	c.cache.InvalidateByFragment(conversationsFragment)
	return nil
}
