package server

import "github.com/gofiber/fiber/v2"

// AboutAuthor godoc
// @Summary About the author
// @Tags about
// @Produce json
// @Success 200 {object} Page
// @Router /about/author [get]
func (s *Server) AboutAuthor(c *fiber.Ctx) error {
	return s.render(c, tmplAboutAuth, AboutPage{
		Title: "Об авторе проекта",
		Body:  "Inkwell is a small blogging platform: authors write posts, file them under groups and follow each other.",
	})
}

// AboutTech godoc
// @Summary Technologies
// @Tags about
// @Produce json
// @Success 200 {object} Page
// @Router /about/tech [get]
func (s *Server) AboutTech(c *fiber.Ctx) error {
	return s.render(c, tmplAboutTech, AboutPage{
		Title: "Технологии",
		Body:  "Go, Fiber, GORM on PostgreSQL and Redis for the page cache.",
	})
}
