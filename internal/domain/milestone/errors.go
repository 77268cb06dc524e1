package milestone

import (
	"errors"
	"fmt"
)

// ErrorKind 生成失败的分类
type ErrorKind string

const (
	// KindInvalidInput 调用方请求不合法
	KindInvalidInput ErrorKind = "InvalidInput"
	// KindMalformedResponse 模型输出修复后仍不是合法 JSON
	KindMalformedResponse ErrorKind = "MalformedResponse"
	// KindUnexpectedShape 合法 JSON，但不是数组或元素缺少必需字段
	KindUnexpectedShape ErrorKind = "UnexpectedShape"
	// KindSumMismatch 金额合计与请求总额的偏差超过容差
	KindSumMismatch ErrorKind = "SumMismatch"
	// KindUpstreamFailure 模型调用本身失败（网络、鉴权等）
	KindUpstreamFailure ErrorKind = "UpstreamFailure"
	// KindTimeout 调用方施加的时限已过
	KindTimeout ErrorKind = "Timeout"
)

// NoIndex 表示错误不针对某个元素
const NoIndex = -1

// GenerationError 一次生成的结构化失败结果
type GenerationError struct {
	Kind   ErrorKind
	Detail string

	// Raw 模型原始输出（未修复），仅解析类错误携带
	Raw string
	// Index 首个不合法元素的下标，NoIndex 表示不适用
	Index int
	// Sum / Expected 仅 SumMismatch 携带
	Sum      float64
	Expected float64

	Err error
}

// Error 实现 error 接口
func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap 返回底层错误
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// HasIndex 是否携带元素下标
func (e *GenerationError) HasIndex() bool {
	return e.Index >= 0
}

// NewInvalidInput 创建 InvalidInput 错误
func NewInvalidInput(detail string) *GenerationError {
	return &GenerationError{Kind: KindInvalidInput, Detail: detail, Index: NoIndex}
}

// NewMalformedResponse 创建 MalformedResponse 错误，raw 为模型原始输出
func NewMalformedResponse(raw string, err error) *GenerationError {
	return &GenerationError{
		Kind:   KindMalformedResponse,
		Detail: "invalid JSON response from model",
		Raw:    raw,
		Index:  NoIndex,
		Err:    err,
	}
}

// NewUnexpectedShape 创建 UnexpectedShape 错误，index 为 NoIndex 时表示顶层结构错误
func NewUnexpectedShape(raw string, index int, detail string) *GenerationError {
	return &GenerationError{
		Kind:   KindUnexpectedShape,
		Detail: detail,
		Raw:    raw,
		Index:  index,
	}
}

// NewSumMismatch 创建 SumMismatch 错误
func NewSumMismatch(sum, expected float64) *GenerationError {
	return &GenerationError{
		Kind:     KindSumMismatch,
		Detail:   fmt.Sprintf("milestones sum to %v, expected %v", sum, expected),
		Index:    NoIndex,
		Sum:      sum,
		Expected: expected,
	}
}

// NewUpstreamFailure 创建 UpstreamFailure 错误
func NewUpstreamFailure(err error) *GenerationError {
	return &GenerationError{
		Kind:   KindUpstreamFailure,
		Detail: "failed to generate milestones",
		Index:  NoIndex,
		Err:    err,
	}
}

// NewTimeout 创建 Timeout 错误
func NewTimeout(err error) *GenerationError {
	return &GenerationError{
		Kind:   KindTimeout,
		Detail: "milestone generation timed out",
		Index:  NoIndex,
		Err:    err,
	}
}

// KindOf 返回错误链中的 ErrorKind，非生成错误返回空串
func KindOf(err error) ErrorKind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}
