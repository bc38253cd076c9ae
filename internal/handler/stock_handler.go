package handler

import (
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type StockHandler struct {
	service service.StockService
	log     *logrus.Logger
}

func NewStockHandler(s service.StockService, log *logrus.Logger) *StockHandler {
	return &StockHandler{service: s, log: log}
}

func (h *StockHandler) CreateStockTransaction(c *fiber.Ctx) error {
	var input service.StockTransactionInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	actorID := getUserID(c)

	result, err := h.service.CreateStockTransaction(actorID, input)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"module":  "stock",
			"op":      "create",
			"actor":   actorID,
			"product": input.ProductID,
		}).Warn(err.Error())
		return errorJSON(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Stock transaction recorded", "data": result})
}

func (h *StockHandler) GetStockTransactions(c *fiber.Ctx) error {
	if productID := c.Query("product_id"); productID != "" {
		transactions, err := h.service.GetStockTransactionsByProduct(productID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(transactions)
	}

	transactions, err := h.service.GetAllStockTransactions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}

func (h *StockHandler) GetStockTransaction(c *fiber.Ctx) error {
	st, err := h.service.GetStockTransactionByID(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(st)
}
