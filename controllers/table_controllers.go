package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kenylson23/lastortillas-backend/models"
	"github.com/kenylson23/lastortillas-backend/services"
	"github.com/kenylson23/lastortillas-backend/utils"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

// CreateTable -> adds a table; duplicate numbers within a location are
// rejected with a conflict.
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber int                `json:"table_number" binding:"required"`
		LocationID  string             `json:"location_id" binding:"required"`
		Seats       int                `json:"seats" binding:"required"`
		Status      models.TableStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Create(req.TableNumber, req.LocationID, req.Seats, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetTables -> tables for one location; the "select a table" list.
func (tc *TableController) GetTables(c *gin.Context) {
	loc, ok := location(c)
	if !ok {
		return
	}

	tables, err := tc.Tables.ListByLocation(loc)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Get(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> edits number/seats; number changes re-check per-location
// uniqueness.
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		TableNumber int `json:"table_number" binding:"required"`
		Seats       int `json:"seats" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Update(uint(id), req.TableNumber, req.Seats)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// UpdateTableStatus -> manual status override (reserve, maintenance, …).
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Status models.TableStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.UpdateStatus(uint(id), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := tc.Tables.Delete(uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": id})
}
