package handler

import (
	"go-inventory-audit/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrInvalidBody.Wrap(err)
	}

	product, err := h.service.CreateProduct(&req, currentUser(c).ID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusCreated, "Product created successfully", product)
}

func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	products, err := h.service.GetProducts(c.Query("category"), page)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Products retrieved successfully", products)
}

func (h *InventoryHandler) GetStatistics(c *fiber.Ctx) error {
	stats, err := h.service.GetStatistics()
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Statistics retrieved successfully", stats)
}

func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Product retrieved successfully", product)
}

func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrInvalidBody.Wrap(err)
	}

	product, err := h.service.UpdateProduct(id, &req, currentUser(c).ID)
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, "Product updated successfully", product)
}

func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	deleted, err := h.service.DeleteProduct(id, currentUser(c).ID)
	if err != nil {
		return err
	}
	if !deleted {
		return service.ErrProductNotFound
	}
	return success(c, fiber.StatusOK, "Product deleted successfully", nil)
}
