// Package middleware 提供 gin 的中介層。
//
// 包含 bearer token 驗證、請求日誌與 Prometheus 指標收集，
// 由 api.SetupRoutes 掛載到路由上。
package middleware
