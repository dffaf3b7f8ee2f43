package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jonwraymond/nrcc-search/auth"
)

func credentialOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString(auth.ArgAPIKey,
			mcp.Description("API key. May also be sent as the X-API-Key header."),
		),
		mcp.WithString(auth.ArgToken,
			mcp.Description("HS256 JWT. May also be sent as an Authorization: Bearer header."),
		),
	}
}

func chemicalsListTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Search for chemicals in the NRCC hazardous chemical database by name and CAS number. Returns up to 5 matches with their idenDataId."),
		mcp.WithString(ArgChemName,
			mcp.Required(),
			mcp.Description(`The chemical name to search for, e.g. "滴滴涕" or "苯".`),
		),
		mcp.WithString(ArgChemCas,
			mcp.Required(),
			mcp.Description(`The CAS number to search for, e.g. "50-29-3" or "71-43-2".`),
		),
	}
	return mcp.NewTool(ToolChemicalsList, append(opts, credentialOptions()...)...)
}

func chemicalDetailTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Retrieve hazards, physical properties and safety measures for one chemical from the NRCC database."),
		mcp.WithString(ArgChemID,
			mcp.Required(),
			mcp.Description(`The idenDataId returned by search_chemicals_list, e.g. "82861C0E-1391-4E10-8AAF-6C342C59EB92".`),
		),
	}
	return mcp.NewTool(ToolChemicalDetail, append(opts, credentialOptions()...)...)
}
