package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"freelance-invoice-api/internal/config"
)

const geminiDefaultModel = "gemini-2.5-flash"

// GeminiChatModel 以 Eino BaseChatModel 形式封装 Google GenAI 客户端
type GeminiChatModel struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewGeminiChatModel 创建 Gemini ChatModel
func NewGeminiChatModel(ctx context.Context, cfg config.ProviderConfig) (*GeminiChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = geminiDefaultModel
	}

	return &GeminiChatModel{
		client:      client,
		model:       modelName,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
	}, nil
}

// GetType 组件类型名，用于回调 RunInfo
func (m *GeminiChatModel) GetType() string {
	return "Gemini"
}

// IsCallbacksEnabled 声明组件自行触发回调
func (m *GeminiChatModel) IsCallbacksEnabled() bool {
	return true
}

// Generate 实现 model.BaseChatModel
func (m *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (outMsg *schema.Message, err error) {
	options := model.GetCommonOptions(&model.Options{
		Model:       &m.model,
		Temperature: &m.temperature,
		MaxTokens:   &m.maxTokens,
	}, opts...)

	modelName := m.model
	if options.Model != nil && *options.Model != "" {
		modelName = *options.Model
	}

	cbConfig := &model.Config{Model: modelName}
	if options.Temperature != nil {
		cbConfig.Temperature = *options.Temperature
	}
	if options.MaxTokens != nil {
		cbConfig.MaxTokens = *options.MaxTokens
	}

	ctx = callbacks.EnsureRunInfo(ctx, m.GetType(), components.ComponentOfChatModel)
	ctx = callbacks.OnStart(ctx, &model.CallbackInput{Messages: input, Config: cbConfig})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	contents, genCfg := toGenAIRequest(input)
	if options.Temperature != nil {
		genCfg.Temperature = options.Temperature
	}
	if options.MaxTokens != nil && *options.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(*options.MaxTokens)
	}

	resp, err := m.client.Models.GenerateContent(ctx, modelName, contents, genCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("empty gemini response")
	}

	outMsg = schema.AssistantMessage(resp.Text(), nil)

	cbOut := &model.CallbackOutput{Message: outMsg, Config: cbConfig}
	if u := resp.UsageMetadata; u != nil {
		usage := &schema.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
		outMsg.ResponseMeta = &schema.ResponseMeta{Usage: usage}
		cbOut.TokenUsage = &model.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		}
	}
	callbacks.OnEnd(ctx, cbOut)

	return outMsg, nil
}

// Stream 以单条消息的流返回完整结果
func (m *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// toGenAIRequest system 消息合并为 SystemInstruction，assistant 映射为 model 角色
func toGenAIRequest(input []*schema.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	cfg := &genai.GenerateContentConfig{}
	contents := make([]*genai.Content, 0, len(input))

	var system []string
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	return contents, cfg
}
