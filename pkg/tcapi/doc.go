// Package tcapi provides types, interfaces, and helpers for working with the
// TeamCity REST API.
//
// # Overview
//
// The tcapi package defines the resource types (Build, BuildMetadata, Change,
// ChangeMetadata, BuildType), the resource client interfaces, and the locator
// builder used to filter every query. A concrete client is provided by the
// tcclient package.
//
//	cli, err := tcclient.New(&tcapi.Config{Host: "teamcity.example.com", Token: token})
//	if err != nil { log.Fatal(err) }
//
//	builds, err := cli.Builds().List(ctx, tcapi.Locator{}.
//	  With("buildType", tcapi.IDLocator("Project_Build")).
//	  With("queuedDate", tcapi.Locator{}.
//	    With("date", time.Now().Add(-24*time.Hour)).
//	    With("condition", "after")), nil)
//
// # Locators
//
// A Locator is an ordered list of dimensions. Compile renders it into the
// server syntax, e.g. "buildType:(id:Project_Build),queuedDate:(date:20240101T000000+0000,condition:after)".
// A field without a value is reported as *LocatorFieldUndefinedError before
// any request is sent.
//
// # Hydration
//
// BuildsClient.HydrateWithChanges resolves the changes link of each build into
// full ChangeMetadata records. Requests run through a bounded pool; the
// JoinPolicy decides between failing the whole join and returning partial
// results alongside a *JoinError.
//
// # Errors
//
// Non-2xx responses are returned as *ResponseError. Helpers such as
// IsNotFound, IsUnauthorized, and IsForbidden branch on the common cases.
package tcapi
