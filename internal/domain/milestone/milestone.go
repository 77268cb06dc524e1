// Package milestone 定义里程碑生成的领域模型与错误分类
package milestone

import (
	"math"
	"strings"
)

// DefaultSumTolerance 金额求和允许的绝对误差
// 金额以普通小数表示（USDC 两位小数精度即可满足）；若改为整数最小单位，需要重新推导
const DefaultSumTolerance = 0.01

// Milestone 一个具名的付款阶段
type Milestone struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// GenerationRequest 单次生成请求，调用方构造、消费一次后丢弃
type GenerationRequest struct {
	ProjectDescription string
	TotalAmount        float64
}

// Validate 检查请求前置条件，失败时返回 InvalidInput
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.ProjectDescription) == "" {
		return NewInvalidInput("projectDescription is required")
	}
	if math.IsNaN(r.TotalAmount) || math.IsInf(r.TotalAmount, 0) {
		return NewInvalidInput("totalAmount must be a finite number")
	}
	if r.TotalAmount <= 0 {
		return NewInvalidInput("totalAmount must be positive")
	}
	return nil
}

// Sum 按顺序累加金额
func Sum(milestones []Milestone) float64 {
	var sum float64
	for _, m := range milestones {
		sum += m.Amount
	}
	return sum
}

// Reconciles 判断 sum 与 total 的差值是否在容差之内
func Reconciles(sum, total, tolerance float64) bool {
	return math.Abs(sum-total) <= tolerance
}
