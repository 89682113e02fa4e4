package nearhub

import (
	"encoding/json"
	"time"

	"github.com/luoxbin/nearhub-desktop/core/model"
)

// FlexString 兼容字符串和数字的 JSON 字段（服务端 id 字段两种形态都出现过）。
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	return nil
}

// String 返回字符串值。
func (f FlexString) String() string {
	return string(f)
}

// errorBody 统一服务端错误响应的字段命名差异，
// 缺省化规则只在这一处反序列化边界出现。
type errorBody struct {
	Code      FlexString `json:"code,omitempty"`
	ErrorCode FlexString `json:"error,omitempty"`
	Message   string     `json:"message,omitempty"`
	Msg       string     `json:"msg,omitempty"`
	Details   any        `json:"details,omitempty"`
}

func (b *errorBody) code() string {
	if b == nil {
		return ""
	}
	if b.Code != "" {
		return string(b.Code)
	}
	return string(b.ErrorCode)
}

func (b *errorBody) message() string {
	if b == nil {
		return ""
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Msg
}

// UserDTO 是服务端用户结构的线缆形态。
type UserDTO struct {
	ID        FlexString `json:"id"`
	Name      string     `json:"name"`
	NickName  string     `json:"nickname"`
	AvatarURL string     `json:"avatarUrl"`
	Bio       string     `json:"bio"`
	Premium   bool       `json:"premium"`
	DistanceM float64    `json:"distanceM"`
	LastSeen  time.Time  `json:"lastSeen"`
}

// ToModel 转换为领域模型，缺省字段在此处补齐。
func (d *UserDTO) ToModel() model.User {
	if d == nil {
		return model.User{}
	}
	name := d.Name
	if name == "" {
		name = d.NickName
	}
	return model.User{
		ID:        d.ID.String(),
		Name:      name,
		NickName:  d.NickName,
		AvatarURL: d.AvatarURL,
		Bio:       d.Bio,
		Premium:   d.Premium,
		DistanceM: d.DistanceM,
		LastSeen:  d.LastSeen,
	}
}

// ProfileDTO 是当前用户完整资料的线缆形态。
type ProfileDTO struct {
	UserDTO
	Email     string    `json:"email"`
	Birthday  string    `json:"birthday"`
	Gender    string    `json:"gender"`
	Visible   *bool     `json:"visible"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToModel 转换为领域模型；visible 缺省视为可见。
func (d *ProfileDTO) ToModel() model.Profile {
	if d == nil {
		return model.Profile{}
	}
	visible := true
	if d.Visible != nil {
		visible = *d.Visible
	}
	return model.Profile{
		User:      d.UserDTO.ToModel(),
		Email:     d.Email,
		Birthday:  d.Birthday,
		Gender:    d.Gender,
		Visible:   visible,
		Location:  model.Location{Lat: d.Lat, Lon: d.Lon},
		CreatedAt: d.CreatedAt,
	}
}

// ConversationDTO 是会话列表项的线缆形态。
type ConversationDTO struct {
	ID          FlexString `json:"id"`
	Peer        UserDTO    `json:"peer"`
	LastMessage string     `json:"lastMessage"`
	UnreadCount int        `json:"unreadCount"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ToModel 转换为领域模型。
func (d *ConversationDTO) ToModel() model.Conversation {
	if d == nil {
		return model.Conversation{}
	}
	return model.Conversation{
		ID:          d.ID.String(),
		Peer:        d.Peer.ToModel(),
		LastMessage: d.LastMessage,
		UnreadCount: d.UnreadCount,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MessageDTO 是消息的线缆形态。
type MessageDTO struct {
	ID             FlexString `json:"id"`
	ConversationID FlexString `json:"conversationId"`
	SenderID       FlexString `json:"senderId"`
	Text           string     `json:"text"`
	SentAt         time.Time  `json:"sentAt"`
	Read           bool       `json:"read"`
}

// ToModel 转换为领域模型。
func (d *MessageDTO) ToModel() model.Message {
	if d == nil {
		return model.Message{}
	}
	return model.Message{
		ID:             d.ID.String(),
		ConversationID: d.ConversationID.String(),
		SenderID:       d.SenderID.String(),
		Text:           d.Text,
		SentAt:         d.SentAt,
		Read:           d.Read,
	}
}

// loginResponse 是登录/注册接口的响应。
type loginResponse struct {
	Token       string   `json:"token"`
	AccessToken string   `json:"accessToken"`
	User        *UserDTO `json:"user"`
}

func (r *loginResponse) token() string {
	if r == nil {
		return ""
	}
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}
