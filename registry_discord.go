/************************************************************************************
 *
 * wfbutler - REST client middleware for a Discord-bot marketplace backend
 *
 * SPDX-License-Identifier: BSD-3-Clause
 *
 ************************************************************************************/

package wfbutler

import (
	"context"
	"fmt"
	"net/http"
)

// The route types below are a representative, mechanical slice of the full
// Discord surface, per §4.8: channel/message CRUD, interaction responses,
// and a handful of guild/user lookups. Each expands into a value type, a
// Display-equivalent path renderer, and a Route implementation — the
// registry is bulky but uninteresting by design.

// GetChannel fetches a channel by ID.
type GetChannel struct {
	ChannelID Snowflake
}

func (r GetChannel) path() string { return fmt.Sprintf("/channels/%s", r.ChannelID) }

func (r GetChannel) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("GET", "/channels/{channel_id}", uint64(r.ChannelID)),
		NeedsAuth: true,
	}
}

func (r GetChannel) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+r.path(), nil)
}

// DoGetChannel executes GetChannel and parses the Channel response.
func DoGetChannel(ctx context.Context, c *DiscordClient, channelID Snowflake) (*Channel, error) {
	route := GetChannel{ChannelID: channelID}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[Channel](route.path(), resp)
	return &out, err
}

// ModifyChannel updates a channel's mutable fields.
type ModifyChannel struct {
	ChannelID Snowflake
	Name      string `json:"name,omitempty"`
}

func (r ModifyChannel) path() string { return fmt.Sprintf("/channels/%s", r.ChannelID) }

func (r ModifyChannel) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("PATCH", "/channels/{channel_id}", uint64(r.ChannelID)),
		NeedsAuth: true,
	}
}

func (r ModifyChannel) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodPatch, baseURL+r.path(), struct {
		Name string `json:"name,omitempty"`
	}{r.Name})
}

// DoModifyChannel executes ModifyChannel and parses the updated Channel.
func DoModifyChannel(ctx context.Context, c *DiscordClient, channelID Snowflake, name string) (*Channel, error) {
	route := ModifyChannel{ChannelID: channelID, Name: name}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[Channel](route.path(), resp)
	return &out, err
}

// DeleteChannel deletes a channel.
type DeleteChannel struct {
	ChannelID Snowflake
}

func (r DeleteChannel) path() string { return fmt.Sprintf("/channels/%s", r.ChannelID) }

func (r DeleteChannel) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("DELETE", "/channels/{channel_id}", uint64(r.ChannelID)),
		NeedsAuth: true,
	}
}

func (r DeleteChannel) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodDelete, baseURL+r.path(), nil)
}

// DoDeleteChannel executes DeleteChannel.
func DoDeleteChannel(ctx context.Context, c *DiscordClient, channelID Snowflake) error {
	resp, err := c.Do(ctx, DeleteChannel{ChannelID: channelID})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// GetChannelMessages fetches recent messages in a channel.
type GetChannelMessages struct {
	ChannelID Snowflake
}

func (r GetChannelMessages) path() string { return fmt.Sprintf("/channels/%s/messages", r.ChannelID) }

func (r GetChannelMessages) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("GET", "/channels/{channel_id}/messages", uint64(r.ChannelID)),
		NeedsAuth: true,
	}
}

func (r GetChannelMessages) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+r.path(), nil)
}

// DoGetChannelMessages executes GetChannelMessages.
func DoGetChannelMessages(ctx context.Context, c *DiscordClient, channelID Snowflake) ([]Message, error) {
	route := GetChannelMessages{ChannelID: channelID}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]Message](route.path(), resp)
}

// GetChannelMessage fetches a single message.
type GetChannelMessage struct {
	ChannelID Snowflake
	MessageID Snowflake
}

func (r GetChannelMessage) path() string {
	return fmt.Sprintf("/channels/%s/messages/%s", r.ChannelID, r.MessageID)
}

func (r GetChannelMessage) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("GET", "/channels/{channel_id}/messages/{message_id}", uint64(r.ChannelID)),
		NeedsAuth: true,
	}
}

func (r GetChannelMessage) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+r.path(), nil)
}

// DoGetChannelMessage executes GetChannelMessage.
func DoGetChannelMessage(ctx context.Context, c *DiscordClient, channelID, messageID Snowflake) (*Message, error) {
	route := GetChannelMessage{ChannelID: channelID, MessageID: messageID}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[Message](route.path(), resp)
	return &out, err
}

// CreateMessage posts a new message into a channel.
type CreateMessage struct {
	ChannelID Snowflake
	Content   string
}

func (r CreateMessage) path() string { return fmt.Sprintf("/channels/%s/messages", r.ChannelID) }

func (r CreateMessage) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("POST", "/channels/{channel_id}/messages", uint64(r.ChannelID)),
		NeedsAuth: true,
	}
}

func (r CreateMessage) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodPost, baseURL+r.path(), CreateMessagePayload{Content: r.Content})
}

// DoCreateMessage executes CreateMessage and parses the created Message.
func DoCreateMessage(ctx context.Context, c *DiscordClient, channelID Snowflake, content string) (*Message, error) {
	route := CreateMessage{ChannelID: channelID, Content: content}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[Message](route.path(), resp)
	return &out, err
}

// CreateInteractionResponse replies to an interaction within its 3-second
// acknowledgement window.
type CreateInteractionResponse struct {
	InteractionID    Snowflake
	InteractionToken string
	Type             int
	Data             any
}

func (r CreateInteractionResponse) path() string {
	return fmt.Sprintf("/interactions/%s/%s/callback", r.InteractionID, r.InteractionToken)
}

func (r CreateInteractionResponse) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("POST", "/interactions/{interaction_id}/{interaction_token}/callback"),
		NeedsAuth: true,
	}
}

func (r CreateInteractionResponse) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodPost, baseURL+r.path(), InteractionResponsePayload{Type: r.Type, Data: r.Data})
}

// DoCreateInteractionResponse executes CreateInteractionResponse.
func DoCreateInteractionResponse(ctx context.Context, c *DiscordClient, interactionID Snowflake, token string, kind int, data any) error {
	resp, err := c.Do(ctx, CreateInteractionResponse{InteractionID: interactionID, InteractionToken: token, Type: kind, Data: data})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// CreateFollowupMessage sends a follow-up message after the initial
// interaction response, outside the 3-second window.
type CreateFollowupMessage struct {
	ApplicationID    Snowflake
	InteractionToken string
	Content          string
}

func (r CreateFollowupMessage) path() string {
	return fmt.Sprintf("/webhooks/%s/%s", r.ApplicationID, r.InteractionToken)
}

func (r CreateFollowupMessage) Info() RouteInfo {
	return RouteInfo{
		Route: r.path(),
		BucketKey: discordBucketKey(
			"POST", "/webhooks/{application_id}/{interaction_token}",
			uint64(r.ApplicationID), hashString(r.InteractionToken),
		),
		NeedsAuth: true,
	}
}

func (r CreateFollowupMessage) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodPost, baseURL+r.path(), CreateWebhookMessagePayload{Content: r.Content})
}

// DoCreateFollowupMessage executes CreateFollowupMessage.
func DoCreateFollowupMessage(ctx context.Context, c *DiscordClient, applicationID Snowflake, token, content string) (*Message, error) {
	route := CreateFollowupMessage{ApplicationID: applicationID, InteractionToken: token, Content: content}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[Message](route.path(), resp)
	return &out, err
}

// GetGuild fetches a guild by ID.
type GetGuild struct {
	GuildID Snowflake
}

func (r GetGuild) path() string { return fmt.Sprintf("/guilds/%s", r.GuildID) }

func (r GetGuild) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("GET", "/guilds/{guild_id}", uint64(r.GuildID)),
		NeedsAuth: true,
	}
}

func (r GetGuild) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+r.path(), nil)
}

// DoGetGuild executes GetGuild.
func DoGetGuild(ctx context.Context, c *DiscordClient, guildID Snowflake) (*Guild, error) {
	route := GetGuild{GuildID: guildID}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[Guild](route.path(), resp)
	return &out, err
}

// GetGuildMember fetches one member of a guild.
type GetGuildMember struct {
	GuildID Snowflake
	UserID  Snowflake
}

func (r GetGuildMember) path() string {
	return fmt.Sprintf("/guilds/%s/members/%s", r.GuildID, r.UserID)
}

func (r GetGuildMember) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("GET", "/guilds/{guild_id}/members/{user_id}", uint64(r.GuildID), uint64(r.UserID)),
		NeedsAuth: true,
	}
}

func (r GetGuildMember) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+r.path(), nil)
}

// DoGetGuildMember executes GetGuildMember.
func DoGetGuildMember(ctx context.Context, c *DiscordClient, guildID, userID Snowflake) (*GuildMember, error) {
	route := GetGuildMember{GuildID: guildID, UserID: userID}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[GuildMember](route.path(), resp)
	return &out, err
}

// GetGuildRoles fetches every role in a guild.
type GetGuildRoles struct {
	GuildID Snowflake
}

func (r GetGuildRoles) path() string { return fmt.Sprintf("/guilds/%s/roles", r.GuildID) }

func (r GetGuildRoles) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("GET", "/guilds/{guild_id}/roles", uint64(r.GuildID)),
		NeedsAuth: true,
	}
}

func (r GetGuildRoles) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+r.path(), nil)
}

// DoGetGuildRoles executes GetGuildRoles.
func DoGetGuildRoles(ctx context.Context, c *DiscordClient, guildID Snowflake) ([]Role, error) {
	route := GetGuildRoles{GuildID: guildID}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]Role](route.path(), resp)
}

// GetUser fetches a user by ID.
type GetUser struct {
	UserID Snowflake
}

func (r GetUser) path() string { return fmt.Sprintf("/users/%s", r.UserID) }

func (r GetUser) Info() RouteInfo {
	return RouteInfo{
		Route:     r.path(),
		BucketKey: discordBucketKey("GET", "/users/{user_id}", uint64(r.UserID)),
		NeedsAuth: true,
	}
}

func (r GetUser) Build(baseURL string) (*http.Request, error) {
	return newJSONRequest(http.MethodGet, baseURL+r.path(), nil)
}

// DoGetUser executes GetUser.
func DoGetUser(ctx context.Context, c *DiscordClient, userID Snowflake) (*User, error) {
	route := GetUser{UserID: userID}
	resp, err := c.Do(ctx, route)
	if err != nil {
		return nil, err
	}
	out, err := decodeJSON[User](route.path(), resp)
	return &out, err
}
