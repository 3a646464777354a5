package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workspace-service/internal/model"
	"workspace-service/internal/query"
	"workspace-service/internal/tenant"
	"workspace-service/pkg/database"
	"workspace-service/pkg/logger"
)

var companySortMap = query.SortMap{
	Columns: map[string]string{
		"name":      "name",
		"industry":  "industry",
		"status":    "status",
		"revenue":   "annual_revenue",
		"employees": "employees_count",
		"created":   "created_at",
	},
	Default: "created_at",
}

// companyFilters assembles the list predicates for the companies table.
func companyFilters(tc *tenant.Context, industry, status, size, revenue, search string) *query.Builder {
	b := (&query.Builder{}).TenantScope(tc).OwnedOrPublic(tc)
	b.Eq("industry", industry)
	b.Eq("status", status)
	b.EmployeeBucket("employees_count", size)
	b.RevenueBucket("annual_revenue", revenue)
	b.Search(search, "name", "industry", "website")
	return b
}

// ListCompanies returns the caller-visible companies with filtering,
// sorting and pagination
func ListCompanies(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	page, limit := parsePagination(c)
	b := companyFilters(tc,
		c.QueryParam("industry"),
		c.QueryParam("status"),
		c.QueryParam("size"),
		c.QueryParam("revenue"),
		c.QueryParam("search"))

	db := database.GetDB()
	var total int64
	if err := b.Apply(db.Model(&model.Company{})).Count(&total).Error; err != nil {
		log.Error("Failed to count companies", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to retrieve companies"})
	}

	var companies []model.Company
	if err := b.Apply(db).
		Order(companySortMap.Order(c.QueryParam("sort"))).
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&companies).Error; err != nil {
		log.Error("Failed to list companies", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to retrieve companies"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"companies":  companies,
		"pagination": newPagination(page, limit, total),
	})
}

// dealStatsFilters builds the isolation predicates for the deal
// aggregates with columns qualified for the joined query. Each stats
// query carries its own parameters; no clause text is shared or
// rewritten between them.
func dealStatsFilters(tc *tenant.Context) *query.Builder {
	b := &query.Builder{}
	if tc == nil || !tc.ApplyRLS {
		return b
	}
	b.Where("deals.client_id = ? AND deals.app_id = ?", tc.ClientID, tc.AppID)
	if tc.Authenticated {
		b.Where("(deals.created_by = ? OR deals.is_public = true)", tc.UserID)
	}
	return b
}

// CompanyStats returns aggregate counts for companies and deals
func CompanyStats(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	db := database.GetDB()

	var statusRows []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	cb := (&query.Builder{}).TenantScope(tc).OwnedOrPublic(tc)
	if err := cb.Apply(db.Model(&model.Company{})).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		log.Error("Failed to aggregate companies by status", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to retrieve stats"})
	}

	var totalCompanies int64
	byStatus := map[string]int64{}
	for _, row := range statusRows {
		byStatus[row.Status] = row.Count
		totalCompanies += row.Count
	}

	var stageRows []struct {
		StageType string  `json:"stage_type"`
		Count     int64   `json:"count"`
		Amount    float64 `json:"amount"`
	}
	sb := dealStatsFilters(tc)
	if err := sb.Apply(db.Model(&model.Deal{})).
		Select("deal_stages.stage_type AS stage_type, COUNT(*) AS count, COALESCE(SUM(deals.amount), 0) AS amount").
		Joins("JOIN deal_stages ON deal_stages.id = deals.stage_id").
		Group("deal_stages.stage_type").
		Scan(&stageRows).Error; err != nil {
		log.Error("Failed to aggregate deals by stage type", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to retrieve stats"})
	}

	dealsByStage := map[string]echo.Map{}
	var wonRevenue, pipelineRevenue float64
	for _, row := range stageRows {
		dealsByStage[row.StageType] = echo.Map{"count": row.Count, "amount": row.Amount}
		switch row.StageType {
		case "won":
			wonRevenue += row.Amount
		case "active":
			pipelineRevenue += row.Amount
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"stats": echo.Map{
			"total_companies":     totalCompanies,
			"companies_by_status": byStatus,
			"deals_by_stage":      dealsByStage,
			"won_revenue":         wonRevenue,
			"pipeline_revenue":    pipelineRevenue,
		},
	})
}

// GetCompany returns a single caller-visible company
func GetCompany(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	id := c.Param("id")
	var company model.Company
	b := (&query.Builder{}).TenantScope(tc).OwnedOrPublic(tc).Where("id = ?", id)
	if err := b.Apply(database.GetDB()).First(&company).Error; err != nil {
		// Absent and forbidden are indistinguishable to the caller.
		log.Warn("Company not found", zap.String("company_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "company not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "company": company})
}

// CreateCompany creates a company record owned by the caller
func CreateCompany(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}
	if !tc.Authenticated {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "authentication required"})
	}

	var req struct {
		Name           string  `json:"name"`
		Industry       string  `json:"industry"`
		Website        string  `json:"website"`
		Phone          string  `json:"phone"`
		Address        string  `json:"address"`
		City           string  `json:"city"`
		Country        string  `json:"country"`
		EmployeesCount int     `json:"employees_count"`
		AnnualRevenue  float64 `json:"annual_revenue"`
		Status         string  `json:"status"`
		IsPublic       bool    `json:"is_public"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse company creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request"})
	}

	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name is required"})
	}
	status := req.Status
	if status == "" {
		status = "active"
	}
	if !model.CompanyStatuses[status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid status"})
	}

	company := model.Company{
		Name:           req.Name,
		Industry:       req.Industry,
		Website:        req.Website,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		Country:        req.Country,
		EmployeesCount: req.EmployeesCount,
		AnnualRevenue:  req.AnnualRevenue,
		Status:         status,
		IsPublic:       req.IsPublic,
		CreatedBy:      tc.UserID,
		ClientID:       tc.ClientID,
		AppID:          tc.AppID,
	}

	if err := database.GetDB().Create(&company).Error; err != nil {
		log.Error("Failed to create company", zap.String("name", req.Name), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "company creation failed"})
	}

	log.Info("Company created",
		zap.Uint("company_id", company.ID),
		zap.String("name", company.Name),
		zap.String("client_id", tc.ClientID),
		zap.String("app_id", tc.AppID))

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "company": company})
}

// UpdateCompany applies a partial update to a caller-visible company
func UpdateCompany(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}
	if !tc.Authenticated {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "authentication required"})
	}

	var req struct {
		Name           *string  `json:"name"`
		Industry       *string  `json:"industry"`
		Website        *string  `json:"website"`
		Phone          *string  `json:"phone"`
		Address        *string  `json:"address"`
		City           *string  `json:"city"`
		Country        *string  `json:"country"`
		EmployeesCount *int     `json:"employees_count"`
		AnnualRevenue  *float64 `json:"annual_revenue"`
		Status         *string  `json:"status"`
		IsPublic       *bool    `json:"is_public"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse company update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request"})
	}

	id := c.Param("id")
	var company model.Company
	b := (&query.Builder{}).TenantScope(tc).OwnedOrPublic(tc).Where("id = ?", id)
	if err := b.Apply(database.GetDB()).First(&company).Error; err != nil {
		log.Warn("Company not found for update", zap.String("company_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "company not found"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name cannot be empty"})
		}
		updates["name"] = *req.Name
	}
	if req.Industry != nil {
		updates["industry"] = *req.Industry
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.EmployeesCount != nil {
		updates["employees_count"] = *req.EmployeesCount
	}
	if req.AnnualRevenue != nil {
		updates["annual_revenue"] = *req.AnnualRevenue
	}
	if req.Status != nil {
		if !model.CompanyStatuses[*req.Status] {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid status"})
		}
		updates["status"] = *req.Status
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if len(updates) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "no updatable fields provided"})
	}

	if err := database.GetDB().Model(&company).Updates(updates).Error; err != nil {
		log.Error("Failed to update company", zap.String("company_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "company update failed"})
	}

	log.Info("Company updated", zap.Uint("company_id", company.ID))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "company": company})
}

// DeleteCompany removes a caller-visible company
func DeleteCompany(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}
	if !tc.Authenticated {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "authentication required"})
	}

	id := c.Param("id")
	var company model.Company
	b := (&query.Builder{}).TenantScope(tc).OwnedOrPublic(tc).Where("id = ?", id)
	if err := b.Apply(database.GetDB()).First(&company).Error; err != nil {
		log.Warn("Company not found for deletion", zap.String("company_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "company not found"})
	}

	if err := database.GetDB().Delete(&company).Error; err != nil {
		log.Error("Failed to delete company", zap.String("company_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "company deletion failed"})
	}

	log.Info("Company deleted", zap.Uint("company_id", company.ID))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Company deleted successfully"})
}

// ListCompanyContacts returns the caller-visible contacts of a company
func ListCompanyContacts(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	id := c.Param("id")
	var company model.Company
	b := (&query.Builder{}).TenantScope(tc).OwnedOrPublic(tc).Where("id = ?", id)
	if err := b.Apply(database.GetDB()).First(&company).Error; err != nil {
		log.Warn("Company not found for contacts listing", zap.String("company_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "company not found"})
	}

	var contacts []model.Contact
	cb := (&query.Builder{}).TenantScope(tc).OwnedOrPublic(tc).Where("company_id = ?", company.ID)
	if err := cb.Apply(database.GetDB()).Order("first_name ASC, last_name ASC").Find(&contacts).Error; err != nil {
		log.Error("Failed to list company contacts", zap.String("company_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to retrieve contacts"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "contacts": contacts})
}

// ListCompanyDeals returns the caller-visible deals of a company with
// their pipeline stage
func ListCompanyDeals(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}

	id := c.Param("id")
	var company model.Company
	b := (&query.Builder{}).TenantScope(tc).OwnedOrPublic(tc).Where("id = ?", id)
	if err := b.Apply(database.GetDB()).First(&company).Error; err != nil {
		log.Warn("Company not found for deals listing", zap.String("company_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "company not found"})
	}

	var deals []model.Deal
	dealBuilder := (&query.Builder{}).TenantScope(tc).OwnedOrPublic(tc).Where("company_id = ?", company.ID)
	if err := dealBuilder.Apply(database.GetDB()).Preload("Stage").Order("created_at DESC").Find(&deals).Error; err != nil {
		log.Error("Failed to list company deals", zap.String("company_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to retrieve deals"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "deals": deals})
}
