package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kenylson23/lastortillas-backend/catalog"
	"github.com/kenylson23/lastortillas-backend/utils"
)

type MenuController struct {
	Catalog catalog.Reader
}

func NewMenuController(reader catalog.Reader) *MenuController {
	return &MenuController{Catalog: reader}
}

// GetMenuItems -> full menu, availability flag included so the client can
// grey out sold-out items.
func (mc *MenuController) GetMenuItems(c *gin.Context) {
	items, err := mc.Catalog.List()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// GetMenuByCategory -> menu grouped for the public menu page.
func (mc *MenuController) GetMenuByCategory(c *gin.Context) {
	items, err := mc.Catalog.List()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu by category", catalog.ByCategory(items))
}
