// Package invoice 把已校验的里程碑编码为托管合约 createInvoice 的调用参数。
// 钱包签名与交易提交由浏览器端完成，这里只定义 Submitter 边界。
package invoice

import (
	"context"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"freelance-invoice-api/internal/config"
	domain "freelance-invoice-api/internal/domain/milestone"
	apperrors "freelance-invoice-api/pkg/errors"
	"freelance-invoice-api/pkg/metrics"
)

// CreateInvoiceFunction 合约方法名
const CreateInvoiceFunction = "createInvoice"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Draft 待提交的发票
type Draft struct {
	FreelancerAddress  string
	TotalAmount        float64
	Milestones         []domain.Milestone
	ProjectDescription string
}

// CreateInvoiceArgs createInvoice(_freelancer, _totalAmount, _milestoneNames, _milestoneAmounts, _description)
type CreateInvoiceArgs struct {
	Freelancer       string
	TotalAmount      *big.Int
	MilestoneNames   []string
	MilestoneAmounts []*big.Int
	Description      string
}

// CreateInvoiceCall 一次合约写调用的完整描述
type CreateInvoiceCall struct {
	ContractAddress string
	ChainID         int64
	FunctionName    string
	Args            CreateInvoiceArgs
}

// Submitter 钱包侧实现：签名并广播交易，返回交易哈希
type Submitter interface {
	Submit(ctx context.Context, call *CreateInvoiceCall) (string, error)
}

// Adapter 发票提交适配器
type Adapter struct {
	contract  config.ContractConfig
	tolerance float64
	submitter Submitter
}

// NewAdapter 创建适配器，submitter 可为 nil（仅生成调用参数）
func NewAdapter(contract config.ContractConfig, tolerance float64, submitter Submitter) *Adapter {
	if tolerance < 0 {
		tolerance = domain.DefaultSumTolerance
	}
	if contract.USDCDecimals <= 0 {
		contract.USDCDecimals = 6
	}
	return &Adapter{contract: contract, tolerance: tolerance, submitter: submitter}
}

// Prepare 校验草稿并编码为 createInvoice 调用
func (a *Adapter) Prepare(d Draft) (call *CreateInvoiceCall, err error) {
	defer func() {
		status := "success"
		if err != nil {
			status = "invalid"
		}
		metrics.InvoiceDraftTotal.WithLabelValues(status).Inc()
	}()

	freelancer := strings.TrimSpace(d.FreelancerAddress)
	if !addressPattern.MatchString(freelancer) {
		// ENS 名称不在此解析
		return nil, invalidDraft("freelancerAddress must be a 0x-prefixed 20-byte hex address")
	}
	if strings.TrimSpace(d.ProjectDescription) == "" {
		return nil, invalidDraft("projectDescription is required")
	}
	if d.TotalAmount <= 0 {
		return nil, invalidDraft("totalAmount must be positive")
	}
	if len(d.Milestones) == 0 {
		return nil, invalidDraft("at least one milestone is required")
	}

	decimals := a.contract.USDCDecimals
	total, err := ParseUnits(d.TotalAmount, decimals)
	if err != nil {
		return nil, invalidDraft("totalAmount: " + err.Error())
	}

	names := make([]string, 0, len(d.Milestones))
	amounts := make([]*big.Int, 0, len(d.Milestones))
	sum := new(big.Int)
	for i, m := range d.Milestones {
		if strings.TrimSpace(m.Name) == "" {
			return nil, invalidDraft(fmt.Sprintf("milestone at index %d: missing name", i))
		}
		units, err := ParseUnits(m.Amount, decimals)
		if err != nil {
			return nil, invalidDraft(fmt.Sprintf("milestone at index %d: %s", i, err.Error()))
		}
		names = append(names, m.Name)
		amounts = append(amounts, units)
		sum.Add(sum, units)
	}

	// 容差换算到最小单位后比较，避免浮点误差
	tolUnits, err := ParseUnits(a.tolerance, decimals)
	if err != nil {
		return nil, invalidDraft("tolerance: " + err.Error())
	}
	diff := new(big.Int).Sub(sum, total)
	if diff.Abs(diff).Cmp(tolUnits) > 0 {
		return nil, invalidDraft(fmt.Sprintf("milestones sum to %v, expected %v", domain.Sum(d.Milestones), d.TotalAmount))
	}

	return &CreateInvoiceCall{
		ContractAddress: a.contract.Address,
		ChainID:         a.contract.ChainID,
		FunctionName:    CreateInvoiceFunction,
		Args: CreateInvoiceArgs{
			Freelancer:       freelancer,
			TotalAmount:      total,
			MilestoneNames:   names,
			MilestoneAmounts: amounts,
			Description:      d.ProjectDescription,
		},
	}, nil
}

// Submit 准备并通过 Submitter 提交，返回交易哈希
func (a *Adapter) Submit(ctx context.Context, d Draft) (string, error) {
	if a.submitter == nil {
		return "", apperrors.New(apperrors.CodeServiceUnavailable, "invoice submitter not configured")
	}
	call, err := a.Prepare(d)
	if err != nil {
		return "", err
	}
	return a.submitter.Submit(ctx, call)
}

func invalidDraft(detail string) *apperrors.AppError {
	return apperrors.New(apperrors.CodeInvoiceDraftInvalid, "invalid invoice draft").WithDetail(detail)
}
