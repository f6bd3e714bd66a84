package response

import "github.com/gin-gonic/gin"

// 失败统一 {"error": msg}，成功体各接口自定（和前端约定一致）

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

// AbortError 中间件用：写响应并截断后续 handler
func AbortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
