package handler

import (
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type SaleHandler struct {
	service service.SaleService
	log     *logrus.Logger
}

func NewSaleHandler(s service.SaleService, log *logrus.Logger) *SaleHandler {
	return &SaleHandler{service: s, log: log}
}

type createSaleRequest struct {
	Lines []service.SaleLine `json:"lines"`
}

func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var req createSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actorID := getUserID(c)

	sale, err := h.service.CreateSale(actorID, req.Lines)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"module": "sale",
			"op":     "create",
			"actor":  actorID,
		}).Warn(err.Error())
		return errorJSON(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.GetAllSales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	sale, err := h.service.GetSaleByID(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sale)
}
