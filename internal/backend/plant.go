package backend

import (
	"context"
	"net/http"
	"net/url"

	productResponse "github.com/Alturino/plantstore/product/response"
)

func (cl *Client) ListPlants(c context.Context) ([]productResponse.Plant, error) {
	plants := productResponse.Plants{}
	if err := cl.do(c, http.MethodGet, "/api/plants", "", nil, &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

func (cl *Client) GetPlant(c context.Context, id string) (productResponse.Plant, error) {
	plant := productResponse.Plant{}
	err := cl.do(c, http.MethodGet, "/api/plants/"+url.PathEscape(id), "", nil, &plant)
	return plant, err
}

func (cl *Client) CategoryAvatars(c context.Context) ([]productResponse.CategoryAvatar, error) {
	avatars := []productResponse.CategoryAvatar{}
	if err := cl.do(c, http.MethodGet, "/api/category-avatars", "", nil, &avatars); err != nil {
		return nil, err
	}
	return avatars, nil
}
