package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"xraychat/internal/pkg/ctxutil"
	httputil "xraychat/internal/pkg/http"
	"xraychat/internal/pkg/id"
	"xraychat/internal/pkg/jwt"
)

// Session 浏览器会话中间件
// 从 Cookie 中的 JWT 解析会话 ID，缺失或无效时签发新会话，并注入到 context
func Session(jwtUtil *jwt.JWT, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sessionID string

		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			claims, err := jwtUtil.ValidateToken(token)
			if err == nil {
				sessionID = claims.SessionID
			} else {
				log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("discarding session cookie")
			}
		}

		if sessionID == "" {
			sessionID = id.New()
			token, err := jwtUtil.GenerateToken(sessionID)
			if err != nil {
				httputil.Abort(c, http.StatusInternalServerError, httputil.CodeSessionFailed, "Failed to create session", err)
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, token, int(jwtUtil.Expiration().Seconds()), "/", "", false, true)
		}

		c.Set("session_id", sessionID)
		c.Request = c.Request.WithContext(ctxutil.WithSessionID(c.Request.Context(), sessionID))

		c.Next()
	}
}
