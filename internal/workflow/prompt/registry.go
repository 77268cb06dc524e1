// Package prompt 管理内嵌的提示词模板
package prompt

import (
	"context"
	"embed"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptMilestonePlanV1 PromptID = "milestone_plan_v1"
)

// 模板变量名
const (
	VarProjectDescription = "project_description"
	VarTotalAmount        = "total_amount"
)

// definition 一个提示词的文件与变量声明
type definition struct {
	systemFile string
	userFile   string
	vars       []string
}

var definitions = map[PromptID]definition{
	PromptMilestonePlanV1: {
		systemFile: "templates/milestone_plan_v1.system.txt",
		userFile:   "templates/milestone_plan_v1.user.txt",
		vars:       []string{VarProjectDescription, VarTotalAmount},
	},
}

// placeholderPattern 匹配 FString 占位符；{{ 与 }} 是转义的字面量花括号
var placeholderPattern = regexp.MustCompile(`\{\{|\}\}|\{(\w+)\}`)

// entry 已加载的模板及其变量
type entry struct {
	tpl  einoprompt.ChatTemplate
	vars []string
}

// Registry 按 PromptID 缓存已构建并校验过的 ChatTemplate
type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]*entry
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]*entry),
	}
}

// ChatTemplate 返回 system + user 两段消息组成的模板（FString 语法，字面量花括号需写成 {{ }}）。
// 模板引用的占位符必须与声明的变量完全一致，否则加载失败。
func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	e, err := r.load(id)
	if err != nil {
		return nil, err
	}
	return e.tpl, nil
}

// Format 校验变量齐全后渲染消息
func (r *Registry) Format(ctx context.Context, id PromptID, vars map[string]any) ([]*schema.Message, error) {
	e, err := r.load(id)
	if err != nil {
		return nil, err
	}
	for _, name := range e.vars {
		if _, ok := vars[name]; !ok {
			return nil, fmt.Errorf("prompt %s: missing variable %q", id, name)
		}
	}
	return e.tpl.Format(ctx, vars)
}

func (r *Registry) load(id PromptID) (*entry, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if e, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return e, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.cache[id]; ok {
		return e, nil
	}

	def, ok := definitions[id]
	if !ok {
		return nil, fmt.Errorf("unknown prompt id: %s", id)
	}
	system, err := readEmbeddedText(def.systemFile)
	if err != nil {
		return nil, err
	}
	user, err := readEmbeddedText(def.userFile)
	if err != nil {
		return nil, err
	}
	if err := checkPlaceholders(id, def.vars, system, user); err != nil {
		return nil, err
	}

	e := &entry{
		tpl: einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(system),
			schema.UserMessage(user),
		),
		vars: def.vars,
	}
	r.cache[id] = e
	return e, nil
}

// checkPlaceholders 模板中的占位符集合必须等于声明的变量集合
func checkPlaceholders(id PromptID, declared []string, texts ...string) error {
	used := placeholders(texts...)
	for _, name := range used {
		if !slices.Contains(declared, name) {
			return fmt.Errorf("prompt %s: undeclared placeholder {%s}", id, name)
		}
	}
	for _, name := range declared {
		if !slices.Contains(used, name) {
			return fmt.Errorf("prompt %s: declared variable %q is not used", id, name)
		}
	}
	return nil
}

// placeholders 按首次出现顺序返回去重后的占位符名
func placeholders(texts ...string) []string {
	var out []string
	for _, text := range texts {
		for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
			if name := m[1]; name != "" && !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
