package predictions

import (
	"salary-backend/internal/batch"
	"salary-backend/internal/features"
	"salary-backend/internal/model"
)

// PredictRequest is the JSON body of POST /predictions.
type PredictRequest struct {
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	EducationLevel    string   `json:"educationLevel"`
	JobTitle          string   `json:"jobTitle"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	Industry          string   `json:"industry"`
	Location          string   `json:"location"`
	CompanySize       string   `json:"companySize"`
	Skills            []string `json:"skills"`
	// UseMarketData defaults to true when omitted.
	UseMarketData *bool `json:"useMarketData"`
}

func (r PredictRequest) profile() features.Profile {
	return features.Profile{
		Age:               r.Age,
		Gender:            r.Gender,
		EducationLevel:    r.EducationLevel,
		JobTitle:          r.JobTitle,
		YearsOfExperience: r.YearsOfExperience,
		Industry:          r.Industry,
		Location:          r.Location,
		CompanySize:       r.CompanySize,
		Skills:            r.Skills,
	}
}

func (r PredictRequest) useMarket() bool {
	return r.UseMarketData == nil || *r.UseMarketData
}

// PredictResponse is returned for a successful prediction.
type PredictResponse struct {
	PredictedSalary float64              `json:"predictedSalary"`
	Breakdown       Breakdown            `json:"breakdown"`
	Confidence      float64              `json:"confidence"`
	Market          MarketUsage          `json:"market"`
	Model           string               `json:"model"`
	Features        []features.Field     `json:"features"`
	TopFactors      []model.Contribution `json:"topFactors"`
}

func toResponse(e Estimate) PredictResponse {
	factors := e.Factors
	if factors == nil {
		factors = []model.Contribution{}
	}
	return PredictResponse{
		PredictedSalary: round2(e.Salary),
		Breakdown:       e.Breakdown,
		Confidence:      e.Confidence,
		Market:          e.Market,
		Model:           e.Model,
		Features:        e.Record.Fields,
		TopFactors:      factors,
	}
}

// OptionsResponse lists the accepted vocabularies.
type OptionsResponse struct {
	Genders         []string `json:"genders"`
	EducationLevels []string `json:"educationLevels"`
	Industries      []string `json:"industries"`
	Locations       []string `json:"locations"`
	CompanySizes    []string `json:"companySizes"`
	Skills          []string `json:"skills"`
	AgeRange        [2]int   `json:"ageRange"`
	ExperienceRange [2]int   `json:"experienceRange"`
	RequiredColumns []string `json:"requiredColumns"`
	OptionalColumns []string `json:"optionalColumns"`
	TemplateURL     string   `json:"templateUrl"`
}

func options() OptionsResponse {
	return OptionsResponse{
		Genders:         features.Genders,
		EducationLevels: features.EducationLevels,
		Industries:      features.Industries,
		Locations:       features.Locations,
		CompanySizes:    features.CompanySizes,
		Skills:          features.Skills,
		AgeRange:        [2]int{features.MinAge, features.MaxAge},
		ExperienceRange: [2]int{features.MinYears, features.MaxYears},
		RequiredColumns: batch.RequiredColumns,
		OptionalColumns: batch.OptionalSkillColumns,
		TemplateURL:     batch.TemplateURL,
	}
}
