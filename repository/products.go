package repository

import (
	"errors"
	"math"
	"strings"

	"catalogadmin/models"

	"gorm.io/gorm"
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// sortableColumns restricts the list order field to the product's own
// columns; the value ends up in the ORDER BY clause.
var sortableColumns = map[string]bool{
	"id":          true,
	"name":        true,
	"description": true,
	"quantity":    true,
	"created_at":  true,
	"updated_at":  true,
}

// ProductQuery carries the list request parameters.
type ProductQuery struct {
	Filter      string `json:"filter"`
	CategoryIDs []uint `json:"category_ids"`
	Order       string `json:"order"`
	OrderType   string `json:"order_type"`
	Page        int    `json:"page"`
	Limit       int    `json:"limit"`
}

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{db: db}
}

// List returns one page of matching products with their categories, the
// total page count and the total matching row count.
func (r *ProductsRepository) List(q ProductQuery) ([]models.Product, int, int64, error) {
	query := r.db.Model(&models.Product{})

	if q.Filter != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q.Filter)+"%")
	}

	// A product must carry every requested category, so each id becomes its
	// own existence constraint rather than one IN membership test.
	for _, categoryID := range q.CategoryIDs {
		query = query.Where(
			"EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = products.id AND pc.category_id = ?)",
			categoryID,
		)
	}

	// Count total after filtering, before pagination
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	order := q.Order
	if !sortableColumns[order] {
		order = "created_at"
	}
	direction := strings.ToLower(q.OrderType)
	if direction != "asc" && direction != "desc" {
		direction = "desc"
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	products := []models.Product{}
	if err := query.
		Preload("Categories").
		Order(order + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, 0, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return products, totalPages, total, nil
}

func (r *ProductsRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Categories").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// NameTaken reports whether another product already uses the given name.
// excludeID is the id of the product being updated, zero for creates.
func (r *ProductsRepository) NameTaken(name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&models.Product{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the product and attaches exactly the given categories in
// one transaction.
func (r *ProductsRepository) Create(product *models.Product, categoryIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		return syncCategories(tx, product, categoryIDs)
	})
}

// Update replaces name, description and quantity wholesale. Associations
// are re-synced only when categoryIDs is non-nil; nil means the categories
// field was not submitted and the existing set is kept.
func (r *ProductsRepository) Update(id uint, fields models.Product, categoryIDs *[]uint) (*models.Product, error) {
	var product models.Product
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		updates := map[string]interface{}{
			"name":        fields.Name,
			"description": fields.Description,
			"quantity":    fields.Quantity,
		}
		if err := tx.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		product.Name = fields.Name
		product.Description = fields.Description
		product.Quantity = fields.Quantity
		if categoryIDs != nil {
			return syncCategories(tx, &product, *categoryIDs)
		}
		return tx.Model(&product).Association("Categories").Find(&product.Categories)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes the product and clears its category associations.
func (r *ProductsRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}

// syncCategories replaces the product's association set with exactly the
// given ids and leaves the loaded set on the struct.
func syncCategories(tx *gorm.DB, product *models.Product, categoryIDs []uint) error {
	categories := []models.Category{}
	if len(categoryIDs) > 0 {
		if err := tx.Find(&categories, categoryIDs).Error; err != nil {
			return err
		}
	}
	if err := tx.Model(product).Association("Categories").Replace(categories); err != nil {
		return err
	}
	product.Categories = categories
	return nil
}
