package controllers

import (
	"github.com/Govind-619/Bookstore/config"
	"github.com/Govind-619/Bookstore/services"
)

// Dependencies are the collaborators shared by the handlers
type Dependencies struct {
	Config     *config.Config
	Views      *services.ViewTracker
	Promotions *services.PromotionNotifier
	Jobs       *services.Jobs
	Mailer     services.Mailer
	Renderer   services.Renderer
}

var deps Dependencies

// Init wires the handlers to their collaborators. It must be called before the router serves requests.
func Init(d Dependencies) {
	deps = d
}
