package dto

import (
	"freelance-invoice-api/internal/application/invoice"
)

// InvoiceDraftRequest 发票草稿请求
type InvoiceDraftRequest struct {
	FreelancerAddress  string      `json:"freelancerAddress"`
	TotalAmount        float64     `json:"totalAmount"`
	Milestones         []Milestone `json:"milestones"`
	ProjectDescription string      `json:"projectDescription"`
}

// ToDraft 转换为应用层草稿
func (r *InvoiceDraftRequest) ToDraft() invoice.Draft {
	return invoice.Draft{
		FreelancerAddress:  r.FreelancerAddress,
		TotalAmount:        r.TotalAmount,
		Milestones:         ToMilestones(r.Milestones),
		ProjectDescription: r.ProjectDescription,
	}
}

// CreateInvoiceArgs 合约参数，uint256 以十进制字符串表示
type CreateInvoiceArgs struct {
	Freelancer       string   `json:"_freelancer"`
	TotalAmount      string   `json:"_totalAmount"`
	MilestoneNames   []string `json:"_milestoneNames"`
	MilestoneAmounts []string `json:"_milestoneAmounts"`
	Description      string   `json:"_description"`
}

// InvoiceDraftResponse createInvoice 调用描述
type InvoiceDraftResponse struct {
	ContractAddress string            `json:"contractAddress"`
	ChainID         int64             `json:"chainId"`
	FunctionName    string            `json:"functionName"`
	Args            CreateInvoiceArgs `json:"args"`
}

// NewInvoiceDraftResponse 从调用描述构建响应
func NewInvoiceDraftResponse(call *invoice.CreateInvoiceCall) *InvoiceDraftResponse {
	amounts := make([]string, 0, len(call.Args.MilestoneAmounts))
	for _, a := range call.Args.MilestoneAmounts {
		amounts = append(amounts, a.String())
	}
	return &InvoiceDraftResponse{
		ContractAddress: call.ContractAddress,
		ChainID:         call.ChainID,
		FunctionName:    call.FunctionName,
		Args: CreateInvoiceArgs{
			Freelancer:       call.Args.Freelancer,
			TotalAmount:      call.Args.TotalAmount.String(),
			MilestoneNames:   call.Args.MilestoneNames,
			MilestoneAmounts: amounts,
			Description:      call.Args.Description,
		},
	}
}
