// Package conv 提供类型转换与配置取值的泛型工具，用于简化各模块中的重复逻辑。
package conv

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	default:
		return 0, false
	}
}

// ToInt64 将 any 转为 int64。
// YAML/JSON 反序列化出的数值可能是 int、int64 或 float64，这里统一收口。
func ToInt64(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case int32:
		return int64(val), true
	case float64:
		return int64(val), true
	case float32:
		return int64(val), true
	default:
		return 0, false
	}
}

// ConfigGet 从 config map 中按 key 取值，类型不符或缺失时返回默认值。
func ConfigGet[T any](config map[string]any, key string, def T) T {
	v, ok := config[key]
	if !ok {
		return def
	}
	if tv, ok := v.(T); ok {
		return tv
	}
	return def
}

// ConfigGetInt64 从 config map 中取整数值，兼容 int/int64/float64。
func ConfigGetInt64(config map[string]any, key string, def int64) int64 {
	v, ok := config[key]
	if !ok {
		return def
	}
	if n, ok := ToInt64(v); ok {
		return n
	}
	return def
}

// SliceAnyToString 将 []any 转为 []string，忽略非字符串元素；
// 输入不是 []any 时返回 nil。
func SliceAnyToString(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// SliceAnyToInt64 将 []any 转为 []int64，忽略无法转换的元素；
// 输入不是 []any 时返回 nil。
func SliceAnyToInt64(v any) []int64 {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(arr))
	for _, e := range arr {
		if n, ok := ToInt64(e); ok {
			out = append(out, n)
		}
	}
	return out
}
