package milestone

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	domain "freelance-invoice-api/internal/domain/milestone"
	wfnode "freelance-invoice-api/internal/workflow/node"
)

// pipelineState 在各阶段之间传递；任一阶段失败即终止
type pipelineState struct {
	raw       string
	repaired  string
	value     any
	total     float64
	tolerance float64

	milestones []domain.Milestone
}

type stage func(st *pipelineState) error

var stages = []stage{repairStage, parseStage, shapeStage, sumStage}

// process 对模型原始输出依次执行 修复 → 解析 → 结构校验 → 金额校验
func process(raw string, total, tolerance float64) ([]domain.Milestone, error) {
	st := &pipelineState{raw: raw, total: total, tolerance: tolerance}
	for _, s := range stages {
		if err := s(st); err != nil {
			return nil, err
		}
	}
	return st.milestones, nil
}

func repairStage(st *pipelineState) error {
	st.repaired = wfnode.StripCodeFence(st.raw)
	return nil
}

func parseStage(st *pipelineState) error {
	dec := json.NewDecoder(strings.NewReader(st.repaired))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return domain.NewMalformedResponse(st.raw, err)
	}
	// 与 JSON.parse 一致：值之后不允许再有内容
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected data after top-level value")
		}
		return domain.NewMalformedResponse(st.raw, err)
	}
	st.value = v
	return nil
}

func shapeStage(st *pipelineState) error {
	items, ok := st.value.([]any)
	if !ok {
		return domain.NewUnexpectedShape(st.raw, domain.NoIndex, "model response is not an array")
	}

	out := make([]domain.Milestone, 0, len(items))
	running := 0.0
	for i, item := range items {
		m, err := toMilestone(item)
		if err != nil {
			return domain.NewUnexpectedShape(st.raw, i, fmt.Sprintf("invalid milestone at index %d: %s", i, err.Error()))
		}
		// 单项有限但累加可能溢出为 +Inf，之后的金额校验与 JSON 输出都无法处理
		running += m.Amount
		if math.IsInf(running, 0) {
			return domain.NewUnexpectedShape(st.raw, i, fmt.Sprintf("invalid milestone at index %d: amounts overflow when summed", i))
		}
		out = append(out, m)
	}
	st.milestones = out
	return nil
}

func toMilestone(item any) (domain.Milestone, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return domain.Milestone{}, fmt.Errorf("not an object")
	}

	name, ok := obj["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return domain.Milestone{}, fmt.Errorf("missing name")
	}

	num, ok := obj["amount"].(json.Number)
	if !ok {
		return domain.Milestone{}, fmt.Errorf("amount is not a number")
	}
	amount, err := num.Float64()
	if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return domain.Milestone{}, fmt.Errorf("amount is not a finite number")
	}
	if amount < 0 {
		return domain.Milestone{}, fmt.Errorf("amount is negative")
	}

	return domain.Milestone{Name: name, Amount: amount}, nil
}

func sumStage(st *pipelineState) error {
	sum := domain.Sum(st.milestones)
	if !domain.Reconciles(sum, st.total, st.tolerance) {
		return domain.NewSumMismatch(sum, st.total)
	}
	return nil
}
