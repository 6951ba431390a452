package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/weatherpro/internal/core/domain"
	"github.com/samirrijal/weatherpro/internal/core/usecases"
)

// buildSchema creates the read-only GraphQL schema. Field names follow the
// JSON tags of the domain types, which graphql-go resolves by default.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"country":  &graphql.Field{Type: graphql.String},
			"lat":      &graphql.Field{Type: graphql.Float},
			"lng":      &graphql.Field{Type: graphql.Float},
			"timezone": &graphql.Field{Type: graphql.String},
		},
	})

	weatherType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Weather",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"locationId":    &graphql.Field{Type: graphql.String},
			"location":      &graphql.Field{Type: graphql.String},
			"temperature":   &graphql.Field{Type: graphql.Float},
			"feelsLike":     &graphql.Field{Type: graphql.Float},
			"humidity":      &graphql.Field{Type: graphql.Float},
			"pressure":      &graphql.Field{Type: graphql.Float},
			"windSpeed":     &graphql.Field{Type: graphql.Float},
			"windDirection": &graphql.Field{Type: graphql.Float},
			"visibility":    &graphql.Field{Type: graphql.Float},
			"description":   &graphql.Field{Type: graphql.String},
			"icon":          &graphql.Field{Type: graphql.String},
			"condition":     &graphql.Field{Type: graphql.String},
			"timestamp":     &graphql.Field{Type: graphql.DateTime},
		},
	})

	rangeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TemperatureRange",
		Fields: graphql.Fields{
			"min": &graphql.Field{Type: graphql.Float},
			"max": &graphql.Field{Type: graphql.Float},
		},
	})

	forecastDayType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ForecastDay",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"locationId":    &graphql.Field{Type: graphql.String},
			"date":          &graphql.Field{Type: graphql.String},
			"day":           &graphql.Field{Type: graphql.String},
			"temperature":   &graphql.Field{Type: rangeType},
			"description":   &graphql.Field{Type: graphql.String},
			"icon":          &graphql.Field{Type: graphql.String},
			"condition":     &graphql.Field{Type: graphql.String},
			"humidity":      &graphql.Field{Type: graphql.Float},
			"windSpeed":     &graphql.Field{Type: graphql.Float},
			"precipitation": &graphql.Field{Type: graphql.Float},
		},
	})

	alertType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Alert",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"type":        &graphql.Field{Type: graphql.String},
			"severity":    &graphql.Field{Type: graphql.String},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"startTime":   &graphql.Field{Type: graphql.DateTime},
			"endTime":     &graphql.Field{Type: graphql.DateTime},
			"active":      &graphql.Field{Type: graphql.Boolean},
		},
	})

	recentSearchType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RecentSearch",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"locationId":   &graphql.Field{Type: graphql.String},
			"locationName": &graphql.Field{Type: graphql.String},
			"country":      &graphql.Field{Type: graphql.String},
			"timestamp":    &graphql.Field{Type: graphql.DateTime},
		},
	})

	preferencesType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Preferences",
		Fields: graphql.Fields{
			"units":           &graphql.Field{Type: graphql.String},
			"language":        &graphql.Field{Type: graphql.String},
			"theme":           &graphql.Field{Type: graphql.String},
			"notifications":   &graphql.Field{Type: graphql.Boolean},
			"defaultLocation": &graphql.Field{Type: graphql.String},
		},
	})

	mapViewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapView",
		Fields: graphql.Fields{
			"center": &graphql.Field{
				Type: graphql.NewList(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if v, ok := p.Source.(domain.MapView); ok {
						return []float64{v.Center.Lat(), v.Center.Lng()}, nil
					}
					return nil, nil
				},
			},
			"zoom": &graphql.Field{Type: graphql.Float},
		},
	})

	stateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DashboardState",
		Fields: graphql.Fields{
			"version":         &graphql.Field{Type: graphql.Int},
			"currentLocation": &graphql.Field{Type: locationType},
			"currentWeather":  &graphql.Field{Type: weatherType},
			"currentForecast": &graphql.Field{Type: graphql.NewList(forecastDayType)},
			"recentSearches":  &graphql.Field{Type: graphql.NewList(recentSearchType)},
			"preferences":     &graphql.Field{Type: preferencesType},
			"isLoading":       &graphql.Field{Type: graphql.Boolean},
			"error":           &graphql.Field{Type: graphql.String},
			"mapView":         &graphql.Field{Type: mapViewType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"currentWeather": &graphql.Field{
				Type:        weatherType,
				Description: "Current conditions at a location",
				Args: graphql.FieldConfigArgument{
					"location": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Weather.Current(p.Context, p.Args["location"].(string))
				},
			},
			"forecast": &graphql.Field{
				Type:        graphql.NewList(forecastDayType),
				Description: "Daily forecast, 1 to 16 days",
				Args: graphql.FieldConfigArgument{
					"location": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"days":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: usecases.DefaultForecastDays},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f, err := deps.Weather.Forecast(p.Context, p.Args["location"].(string), p.Args["days"].(int))
					if err != nil {
						return nil, err
					}
					return f.Days, nil
				},
			},
			"alerts": &graphql.Field{
				Type:        graphql.NewList(alertType),
				Description: "Active alerts at a location",
				Args: graphql.FieldConfigArgument{
					"location": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Weather.Alerts(p.Context, p.Args["location"].(string))
				},
			},
			"searchLocations": &graphql.Field{
				Type:        graphql.NewList(locationType),
				Description: "Case-insensitive name search",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Locations.Search(p.Context, usecases.SearchQuery{
						Text:  p.Args["query"].(string),
						Limit: p.Args["limit"].(int),
					})
				},
			},
			"popularLocations": &graphql.Field{
				Type: graphql.NewList(locationType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Locations.Popular(p.Context, p.Args["limit"].(int))
				},
			},
			"state": &graphql.Field{
				Type:        stateType,
				Description: "Dashboard state of a session",
				Args: graphql.FieldConfigArgument{
					"session": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Sessions.Snapshot(p.Context, p.Args["session"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "Invalid GraphQL request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
