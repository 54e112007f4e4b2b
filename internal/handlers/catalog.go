package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/dealspot/internal/models"
	"github.com/example/dealspot/internal/utils"
)

// CatalogHandler manages categories, businesses and products.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// Categories

func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	var items []models.Category
	if err := h.db.Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var item models.Category
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	var item models.Category
	if err := h.db.First(&item, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *CatalogHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.db.Delete(&models.Category{}, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Businesses

func (h *CatalogHandler) ListBusinesses(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	var total int64
	if err := h.db.Model(&models.Business{}).Count(&total).Error; err != nil {
		return err
	}
	var items []models.Business
	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": items, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

func (h *CatalogHandler) CreateBusiness(c *fiber.Ctx) error {
	var item models.Business
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

func (h *CatalogHandler) GetBusiness(c *fiber.Ctx) error {
	var item models.Business
	if err := h.db.First(&item, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "business not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *CatalogHandler) DeleteBusiness(c *fiber.Ctx) error {
	if err := h.db.Delete(&models.Business{}, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Products

func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Product{})

	if v := c.Query("category_id"); v != "" {
		query = query.Where("category_id = ?", v)
	}
	if v := c.Query("business_id"); v != "" {
		query = query.Where("business_id = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var items []models.Product
	if err := query.Preload("Category").Preload("Business").
		Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var item models.Product
	if err := c.BodyParser(&item); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.db.Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	var item models.Product
	if err := h.db.Preload("Category").Preload("Business").
		First(&item, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.db.Delete(&models.Product{}, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
