package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"freelance-invoice-api/internal/config"
	"freelance-invoice-api/internal/interfaces/http/dto"
)

const miniAppManifestVersion = "1"

// ContractHandler 合约与 mini app 静态信息
type ContractHandler struct {
	contract config.ContractConfig
	miniApp  config.MiniAppConfig
}

// NewContractHandler 创建处理器
func NewContractHandler(cfg *config.Config) *ContractHandler {
	return &ContractHandler{contract: cfg.Contract, miniApp: cfg.MiniApp}
}

// ContractInfo 托管合约信息
// @Summary 合约信息
// @Tags Contract
// @Produce json
// @Success 200 {object} dto.ContractInfoResponse
// @Router /contract-info [get]
func (h *ContractHandler) ContractInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ContractInfoResponse{
		ContractAddress: h.contract.Address,
		Network:         h.contract.Network,
		ChainID:         h.contract.ChainID,
		USDCAddress:     h.contract.USDCAddress,
		FeePercentage:   h.contract.FeePercentage,
	})
}

// Manifest Farcaster mini app manifest
// @Summary Mini app manifest
// @Tags MiniApp
// @Produce json
// @Success 200 {object} dto.MiniAppManifest
// @Router /.well-known/farcaster.json [get]
func (h *ContractHandler) Manifest(c *gin.Context) {
	m := h.miniApp
	c.JSON(http.StatusOK, dto.MiniAppManifest{
		Frame: dto.MiniAppFrame{
			Version:               miniAppManifestVersion,
			Name:                  m.Name,
			Subtitle:              m.Subtitle,
			Description:           m.Description,
			IconURL:               m.IconURL,
			SplashImageURL:        m.SplashImageURL,
			SplashBackgroundColor: m.SplashBackgroundColor,
			HomeURL:               m.HomeURL,
			WebhookURL:            webhookURL(m.HomeURL),
			PrimaryCategory:       m.PrimaryCategory,
			Tags:                  m.Tags,
			HeroImageURL:          m.HeroImageURL,
			Tagline:               m.Tagline,
			OGTitle:               m.Name,
			OGDescription:         m.Description,
			OGImageURL:            m.HeroImageURL,
		},
	})
}

func webhookURL(homeURL string) string {
	if homeURL == "" {
		return ""
	}
	return strings.TrimRight(homeURL, "/") + "/api/notification"
}
