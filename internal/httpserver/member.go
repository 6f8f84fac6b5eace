package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	membersvc "storefront/internal/service/member"
)

type signupForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Address  string `form:"address"`
}

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (a *api) signup(c *gin.Context) {
	var form signupForm
	if err := c.ShouldBind(&form); err != nil {
		a.writeError(c, bindError(err))
		return
	}
	m, err := a.deps.MemberSvc.Signup(c.Request.Context(), membersvc.SignupInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Address:  form.Address,
	})
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": m})
}

func (a *api) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		a.writeError(c, bindError(err))
		return
	}
	m, token, err := a.deps.MemberSvc.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		a.writeError(c, err)
		return
	}
	ttl := a.deps.MemberSvc.SessionTTLSeconds()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, ttl, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": ttl,
		"member":    m,
	})
}

func (a *api) logout(c *gin.Context) {
	if err := a.deps.MemberSvc.Logout(c.Request.Context(), sessionToken(c)); err != nil {
		a.writeError(c, err)
		return
	}
	c.SetCookie(sessionCookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	c.Status(http.StatusNoContent)
}
