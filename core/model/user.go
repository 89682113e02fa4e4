package model

import "time"

// Location 表示一个经纬度坐标。
type Location struct {
	Lat float64
	Lon float64
}

// User 描述平台用户的公开信息。
type User struct {
	ID        string
	Name      string
	NickName  string
	AvatarURL string
	Bio       string
	Premium   bool
	// DistanceM 为与当前用户的距离（米），仅附近列表返回时有值。
	DistanceM float64
	LastSeen  time.Time
}

// Profile 描述当前登录用户的完整资料。
type Profile struct {
	User
	Email     string
	Birthday  string
	Gender    string
	Visible   bool
	Location  Location
	CreatedAt time.Time
}
