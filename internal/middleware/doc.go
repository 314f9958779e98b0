// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 目前只有 JWT 身份驗證中間件，保護需要登入的 REST 路由；
// WebSocket 連接的認證不走這裡，而是在連接內以 authorize 事件完成。
package middleware
