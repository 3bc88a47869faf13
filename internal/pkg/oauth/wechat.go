package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

const (
	wechatAuthURL     = "https://open.weixin.qq.com/connect/qrconnect"
	wechatTokenURL    = "https://api.weixin.qq.com/sns/oauth2/access_token"
	wechatUserInfoURL = "https://api.weixin.qq.com/sns/userinfo"
)

// WechatUser 微信用户信息
type WechatUser struct {
	OpenID    string `json:"openid"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"headimgurl"`
	UnionID   string `json:"unionid,omitempty"`
}

type WechatOAuth struct {
	config *oauth2.Config
	appID  string
}

func NewWechatOAuth(appID, appSecret, redirectURI string) *WechatOAuth {
	return &WechatOAuth{
		config: &oauth2.Config{
			ClientID:     appID,
			ClientSecret: appSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"snsapi_login"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   wechatAuthURL,
				TokenURL:  wechatTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		appID: appID,
	}
}

// GetAuthURL 获取微信扫码授权 URL。
// 微信要求参数名为 appid 而非 client_id。
func (w *WechatOAuth) GetAuthURL(state string) string {
	params := url.Values{}
	params.Set("appid", w.appID)
	params.Set("redirect_uri", w.config.RedirectURL)
	params.Set("response_type", "code")
	params.Set("scope", "snsapi_login")
	params.Set("state", state)
	return wechatAuthURL + "?" + params.Encode() + "#wechat_redirect"
}

// Exchange 用授权码换取 access token。
// 微信在 token 响应里附带 openid，通过 token.Extra("openid") 取出。
func (w *WechatOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return w.config.Exchange(ctx, code,
		oauth2.SetAuthURLParam("appid", w.config.ClientID),
		oauth2.SetAuthURLParam("secret", w.config.ClientSecret),
	)
}

// OpenID 从 token 中取出 openid
func (w *WechatOAuth) OpenID(token *oauth2.Token) (string, error) {
	openID, ok := token.Extra("openid").(string)
	if !ok || openID == "" {
		return "", fmt.Errorf("openid missing in token response")
	}
	return openID, nil
}

// GetUser 获取微信用户信息
func (w *WechatOAuth) GetUser(ctx context.Context, token *oauth2.Token) (*WechatUser, error) {
	openID, err := w.OpenID(token)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("access_token", token.AccessToken)
	params.Set("openid", openID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wechatUserInfoURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// 微信出错时返回 200 + errcode
	var apiErr struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.ErrCode != 0 {
		return nil, fmt.Errorf("wechat api error %d: %s", apiErr.ErrCode, apiErr.ErrMsg)
	}

	var user WechatUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &user, nil
}
