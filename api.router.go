package main

// MiddlewareMap contains middlwares chain to use for public-facing,
// catalog and ops requests.
type MiddlewareMap struct {
	public  MiddlewareFunc
	catalog MiddlewareFunc
	ops     MiddlewareFunc
}

// NewMiddlewareMap builds the chains of the api handler.
func (api *APIHandler) NewMiddlewareMap() *MiddlewareMap {
	public, catalog, ops := api.MiddlewaresStacks()
	return &MiddlewareMap{
		public:  public.Chain,
		catalog: catalog.Chain,
		ops:     ops.Chain,
	}
}
