// Package api 設定 HTTP 路由。
//
// 讀取類路由公開，寫入類路由經過 middleware.AuthMiddleware；
// handlers 子套件把請求轉成 service 呼叫並組合 JSON 回應。
package api
