package handler

import "github.com/playtube/account-service/internal/core/domain"

func toImageResponse(img domain.Image) imageResponse {
	return imageResponse{PublicID: img.PublicID, URL: img.URL}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     toImageResponse(u.Avatar),
		CoverImage: toImageResponse(u.CoverImage),
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toChannelProfileResponse(p *domain.ChannelProfile) channelProfileResponse {
	return channelProfileResponse{
		FullName:                  p.FullName,
		Username:                  p.Username,
		Email:                     p.Email,
		Avatar:                    toImageResponse(p.Avatar),
		CoverImage:                toImageResponse(p.CoverImage),
		SubscribersCount:          p.SubscribersCount,
		ChannelsSubscribedToCount: p.ChannelsSubscribedToCount,
		IsSubscribed:              p.IsSubscribed,
	}
}

func toVideoResponses(videos []domain.Video) []videoResponse {
	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, videoResponse{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			VideoFile:   toImageResponse(v.VideoFile),
			Thumbnail:   toImageResponse(v.Thumbnail),
			Duration:    v.Duration,
			Views:       v.Views,
			Owner: videoOwnerResponse{
				FullName: v.Owner.FullName,
				Username: v.Owner.Username,
				Avatar:   toImageResponse(v.Owner.Avatar),
			},
			CreatedAt: v.CreatedAt,
		})
	}
	return out
}
