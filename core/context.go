package core

// RecommendContext 承载一次推荐请求的用户与场景信息，贯穿整条链路透传。
// 推荐计算本身是已加载数据上的纯函数，因此这里只有只读的请求级字段。
type RecommendContext struct {
	UserID int64

	// Params 请求级上下文参数，供规则过滤等策略节点读取。
	Params map[string]any
}
