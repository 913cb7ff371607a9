package api

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Deps) *routeHandlers {
	svc := deps.Services
	return &routeHandlers{
		userHandler:    newUserHandler(svc.Accounts, svc.Profiles, deps.Images),
		skillHandler:   newSkillHandler(svc.Skills),
		messageHandler: newMessageHandler(svc.Messages),
		projectHandler: newProjectHandler(svc.Projects, svc.Reviews, deps.Images),
		tagHandler:     newTagHandler(svc.Tags),
		reviewHandler:  newReviewHandler(svc.Reviews),
		healthHandler:  newHealthHandler(deps.Database),
	}
}
