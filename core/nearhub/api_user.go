package nearhub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/luoxbin/nearhub-desktop/core/model"
)

// usersFragment 用于写操作后定向失效用户资源族的缓存。
const usersFragment = "/users"

// Me 返回当前登录用户的完整资料。
func (c *Client) Me(ctx context.Context) (model.Profile, error) {
	var dto ProfileDTO
	if err := c.requestJSON(ctx, "/users/me", RequestOptions{}, &dto); err != nil {
		return model.Profile{}, err
	}
	return dto.ToModel(), nil
}

type nearbyResponse struct {
	Users []UserDTO `json:"users"`
}

// NearbyUsers 返回附近用户列表。位置数据变化快，TTL 取默认 30s。
func (c *Client) NearbyUsers(ctx context.Context, loc model.Location, radiusM int) ([]model.User, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	if radiusM > 0 {
		query.Set("radius", strconv.Itoa(radiusM))
	}
	var body nearbyResponse
	if err := c.requestJSON(ctx, "/users/nearby?"+query.Encode(), RequestOptions{}, &body); err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(body.Users))
	for i := range body.Users {
		users = append(users, body.Users[i].ToModel())
	}
	return users, nil
}

// ProfileUpdate 描述资料更新的可选字段，nil 表示不修改。
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	NickName *string `json:"nickname,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Birthday *string `json:"birthday,omitempty"`
	Gender   *string `json:"gender,omitempty"`
	Visible  *bool   `json:"visible,omitempty"`
}

// UpdateProfile 更新当前用户资料并失效用户缓存族。
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (model.Profile, error) {
	var dto ProfileDTO
	err := c.requestJSON(ctx, "/users/me", RequestOptions{
		Method: http.MethodPut,
		Body:   update,
	}, &dto)
	if err != nil {
		return model.Profile{}, err
	}
	c.cache.InvalidateByFragment(usersFragment)
	return dto.ToModel(), nil
}

// UpdateLocation 上报当前位置。
func (c *Client) UpdateLocation(ctx context.Context, loc model.Location) error {
	_, err := c.Request(ctx, "/users/me/location", RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]float64{"lat": loc.Lat, "lon": loc.Lon},
	})
	if err != nil {
		return err
	}
	c.cache.InvalidateByFragment(usersFragment)
	return nil
}

// UploadAvatar 以 multipart 上传头像并失效用户缓存族。
func (c *Client) UploadAvatar(ctx context.Context, fileName string, content io.Reader) (string, error) {
	var body struct {
		AvatarURL string `json:"avatarUrl"`
	}
	err := c.requestJSON(ctx, "/users/me/avatar", RequestOptions{
		Method: http.MethodPost,
		Files: []FormFile{
			{Field: "avatar", FileName: fileName, Content: content},
		},
	}, &body)
	if err != nil {
		return "", err
	}
	c.cache.InvalidateByFragment(usersFragment)
	return body.AvatarURL, nil
}

// LikeUser 点赞指定用户。
func (c *Client) LikeUser(ctx context.Context, userID string) error {
	_, err := c.Request(ctx, fmt.Sprintf("/users/%s/like", userID), RequestOptions{
		Method: http.MethodPost,
	})
	if err != nil {
		return err
	}
	c.cache.InvalidateByFragment(usersFragment)
	return nil
}

// UnlikeUser 取消点赞。
func (c *Client) UnlikeUser(ctx context.Context, userID string) error {
	_, err := c.Request(ctx, fmt.Sprintf("/users/%s/like", userID), RequestOptions{
		Method: http.MethodDelete,
	})
	if err != nil {
		return err
	}
	c.cache.InvalidateByFragment(usersFragment)
	return nil
}

// BlockUser 拉黑指定用户，同时失效用户与会话缓存族。
func (c *Client) BlockUser(ctx context.Context, userID string) error {
	_, err := c.Request(ctx, fmt.Sprintf("/users/%s/block", userID), RequestOptions{
		Method: http.MethodPost,
	})
	if err != nil {
		return err
	}
	c.cache.InvalidateByFragment(usersFragment)
	c.cache.InvalidateByFragment(conversationsFragment)
	return nil
}

// ReportUser 举报指定用户。
func (c *Client) ReportUser(ctx context.Context, userID, reason string) error {
	_, err := c.Request(ctx, fmt.Sprintf("/users/%s/report", userID), RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"reason": reason},
	})
	return err
}
