package code

import "net/http"

var (
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})
	// SuccessSaved mirrors the notification shown after a save
	SuccessSaved    = NewSuss(2, lang{en: "Action done", zh_cn: "操作完成"})
	SuccessAccepted = NewSuss(3, lang{en: "Accepted", zh_cn: "已接受"})

	ErrorServerInternal     = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"}).withHTTPStatus(http.StatusInternalServerError)
	ErrorNotFoundAPI        = NewError(404, lang{en: "API not found", zh_cn: "接口不存在"}).withHTTPStatus(http.StatusNotFound)
	ErrorInvalidParams      = NewError(400, lang{en: "Invalid parameters", zh_cn: "参数错误"}).withHTTPStatus(http.StatusBadRequest)
	ErrorTooManyRequests    = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"}).withHTTPStatus(http.StatusTooManyRequests)
	ErrorInvalidStorageType = NewError(501, lang{en: "Invalid storage type", zh_cn: "无效的存储类型"})
	ErrorControllerClosed   = NewError(503, lang{en: "Service is shutting down", zh_cn: "服务正在关闭"}).withHTTPStatus(http.StatusServiceUnavailable)

	ErrorNoteNotFound      = NewError(1001, lang{en: "Note not found", zh_cn: "笔记不存在"}).withHTTPStatus(http.StatusNotFound)
	ErrorNoteHasID         = NewError(1002, lang{en: "Note already has an id", zh_cn: "笔记已有 ID"}).withHTTPStatus(http.StatusBadRequest)
	ErrorNoteMissingID     = NewError(1003, lang{en: "Note id is required", zh_cn: "笔记缺少 ID"}).withHTTPStatus(http.StatusBadRequest)
	ErrorImageCopy         = NewError(1004, lang{en: "Failed to copy image", zh_cn: "图片复制失败"}).withHTTPStatus(http.StatusInternalServerError)
	ErrorQuoteUnavailable  = NewError(1005, lang{en: "Quote service unavailable", zh_cn: "名言服务不可用"}).withHTTPStatus(http.StatusBadGateway)
	ErrorUnknownIntent     = NewError(1006, lang{en: "Unknown intent type", zh_cn: "未知的意图类型"}).withHTTPStatus(http.StatusBadRequest)
	ErrorImageUploadFailed = NewError(1007, lang{en: "Image upload failed", zh_cn: "图片上传失败"}).withHTTPStatus(http.StatusBadRequest)
)
