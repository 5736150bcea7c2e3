package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/tmstore/pkg/catalog"
	"github.com/example/tmstore/pkg/models"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 12
	maxPageLimit     = 100
	featuredLimit    = 8
)

// listProducts runs the full catalog through the filter/sort pipeline and
// paginates the result. Invalid query values are ignored, not rejected.
func (s *Server) listProducts(c *gin.Context) {
	criteria := parseCriteria(c)
	page, limit := parsePagination(c)

	products, err := s.deps.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		serverError(c, s.logger, err)
		return
	}

	filtered := catalog.Apply(products, criteria)
	total := int64(len(filtered))

	start := (page - 1) * limit
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	respondPage(c, filtered[start:end], newMeta(total, page, limit))
}

func (s *Server) featuredProducts(c *gin.Context) {
	products, err := s.deps.Catalog.FeaturedProducts(c.Request.Context(), featuredLimit)
	if err != nil {
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, products)
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.deps.Catalog.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			clientError(c, http.StatusNotFound, "product not found")
			return
		}
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, product)
}

func (s *Server) listCategories(c *gin.Context) {
	categories, err := s.deps.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, categories)
}

func (s *Server) getCategory(c *gin.Context) {
	category, err := s.deps.Catalog.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			clientError(c, http.StatusNotFound, "category not found")
			return
		}
		serverError(c, s.logger, err)
		return
	}
	respond(c, http.StatusOK, category)
}

func parseCriteria(c *gin.Context) catalog.Criteria {
	criteria := catalog.Criteria{
		Category: c.Query("category"),
		Gender:   models.Gender(c.Query("gender")),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}

	// legacy clients send sort=price&order=desc instead of sort=price-desc
	if criteria.Sort == "price" {
		if c.Query("order") == "desc" {
			criteria.Sort = catalog.SortPriceDesc
		} else {
			criteria.Sort = catalog.SortPriceAsc
		}
	}

	if sizes := c.Query("size"); sizes != "" {
		for _, sz := range strings.Split(sizes, ",") {
			if sz = strings.TrimSpace(sz); sz != "" {
				criteria.Sizes = append(criteria.Sizes, sz)
			}
		}
	}

	if v := c.Query("minPrice"); v != "" {
		if p, err := strconv.ParseInt(v, 10, 64); err == nil {
			criteria.MinPrice = &p
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if p, err := strconv.ParseInt(v, 10, 64); err == nil {
			criteria.MaxPrice = &p
		}
	}

	criteria.IsNew = c.Query("isNew") == "true"
	criteria.IsBestSeller = c.Query("isBestseller") == "true"
	criteria.IsFeatured = c.Query("isFeatured") == "true"

	return criteria
}

func parsePagination(c *gin.Context) (page, limit int) {
	page = 1
	limit = defaultPageLimit

	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p >= 1 {
			page = p
		}
	}
	if v := c.Query("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			if l < 1 {
				limit = 1
			} else if l > maxPageLimit {
				limit = maxPageLimit
			} else {
				limit = l
			}
		}
	}
	return page, limit
}
